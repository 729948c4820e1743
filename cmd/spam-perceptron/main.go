/*
Package main is the entry point for spam-perceptron CLI.

spam-perceptron is a keyword-count perceptron spam filter. Documents become
vectors of keyword occurrence counts, and a single linear unit trained with
squared-error gradient steps labels them SPAM or HAM.

Usage:
  spam-perceptron [command]

Available Commands:
  init        Write a default configuration file
  train       Train the spam model on labeled documents
  classify    Classify text files as SPAM or HAM
  inspect     Show the parameters of a saved model
  evaluate    Measure model accuracy on a labeled manifest
  keywords    Show the effective keyword list
  history     Show recent classifications or training runs
  search      Search the document corpus
  version     Show version information

Examples:
  # Train on two labeled files
  spam-perceptron train spam:offer.txt ham:meeting.txt

  # Classify new mail
  spam-perceptron classify inbox/*.txt
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/spam-perceptron/internal/cli"
	"github.com/khanglvm/spam-perceptron/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCmd().ExecuteContext(ctx)
	_ = logger.Global().Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
