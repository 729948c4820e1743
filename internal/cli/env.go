/*
Package cli provides the shared runtime environment for commands.

These helpers load configuration and open storage, history and index with
graceful degradation: an unavailable database or index never fails a command.
*/
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/config/sources"
	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/history"
	"github.com/khanglvm/spam-perceptron/internal/index"
	"github.com/khanglvm/spam-perceptron/internal/logger"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
	"github.com/khanglvm/spam-perceptron/internal/storage"
)

// env is the resolved configuration for one command invocation.
type env struct {
	cfg           *config.Config
	cfgPath       string
	keywords      features.Keywords
	keywordSource string
	log           *zap.SugaredLogger
}

// configPath returns the config file the options point to.
func (o *Options) configPath() (string, error) {
	if o.ConfigPath != "" {
		return config.ExpandHome(o.ConfigPath)
	}
	return config.GetDefaultConfigPath()
}

// load resolves config, logger and keywords.
func (o *Options) load() (*env, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Global().Warnf("%v", err)
	}

	path, err := o.configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg)
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	logFile, err := config.ExpandHome(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.ReplaceGlobal(log)

	res, err := sources.Resolve(sources.ForConfig(cfg, o.Keywords, o.KeywordsFile))
	if err != nil {
		return nil, err
	}
	log.Debugw("configuration loaded", "config", path, "keywords", res.Source, "count", res.Keywords.Len())

	return &env{
		cfg:           cfg,
		cfgPath:       path,
		keywords:      res.Keywords,
		keywordSource: res.Source,
		log:           log,
	}, nil
}

// modelPath returns flag if set, otherwise the configured model path.
func (e *env) modelPath(flag string) (string, error) {
	p := flag
	if p == "" {
		p = e.cfg.ModelPath
	}
	return config.ExpandHome(p)
}

// openStorage returns the history database. A disabled or broken database
// yields a no-op storage.
func (e *env) openStorage() *storage.SQLiteStorage {
	if !e.cfg.Storage.Enabled {
		return storage.NewDisabled()
	}

	path, err := config.ExpandHome(e.cfg.Storage.Path)
	if err != nil {
		e.log.Warnf("storage disabled: %v", err)
		return storage.NewDisabled()
	}

	store := storage.NewStorage(path)
	if err := store.Init(); err != nil {
		e.log.Warnf("storage disabled: %v", err)
	}
	return store
}

// cleanup applies the retention policy.
func (e *env) cleanup(store storage.Storage) {
	if e.cfg.Storage.RetentionDays <= 0 {
		return
	}
	retention := time.Duration(e.cfg.Storage.RetentionDays) * 24 * time.Hour
	if err := store.Cleanup(retention); err != nil {
		e.log.Warnf("history cleanup failed: %v", err)
	}
}

// newRecorder creates a classification recorder for store.
func (e *env) newRecorder(store storage.Storage) *history.Recorder {
	return history.NewRecorder(store)
}

// openIndex opens the corpus index, or returns nil when none is configured
// or it cannot be opened.
func (e *env) openIndex() *index.Index {
	if e.cfg.Index.Path == "" {
		return nil
	}

	path, err := config.ExpandHome(e.cfg.Index.Path)
	if err != nil {
		e.log.Warnf("index disabled: %v", err)
		return nil
	}

	idx, err := index.Open(path)
	if err != nil {
		e.log.Warnf("index disabled: %v", err)
		return nil
	}
	return idx
}

// loadModel reads the model at path and checks it against the keyword list
// and the registry.
func (e *env) loadModel(path string, store storage.Storage) (*perceptron.LinearUnit, error) {
	unit, err := perceptron.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if unit.Size() != e.keywords.Len() {
		return nil, fmt.Errorf("model %s has %d weights but %d keywords are configured (source: %s)\n💡 Use the keyword list the model was trained with (see 'spam-perceptron keywords')",
			path, unit.Size(), e.keywords.Len(), e.keywordSource)
	}

	e.checkRegistry(path, store)
	return unit, nil
}

// checkRegistry warns when the model was trained with a different keyword list.
func (e *env) checkRegistry(path string, store storage.Storage) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	rec, err := store.GetModel(abs)
	if err != nil {
		e.log.Warnf("failed to read model registry: %v", err)
		return
	}
	if rec != nil && rec.KeywordsHash != e.keywords.Hash() {
		e.log.Warnf("model %s was trained with a different keyword list (%d keywords); predictions may be meaningless", path, len(rec.Keywords))
	}
}

// registerModel records the keyword list the saved model was trained with.
func (e *env) registerModel(path string, unit *perceptron.LinearUnit, store storage.Storage) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	err = store.SaveModel(storage.ModelRecord{
		ModelPath:    abs,
		Keywords:     e.keywords,
		KeywordsHash: e.keywords.Hash(),
		Dimensions:   unit.Size(),
		LearningRate: unit.LearningRate(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		e.log.Warnf("failed to register model keywords: %v", err)
	}
}

// formatJSON pretty-prints JSON for output.
func formatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// classLabel returns the display name of a class.
func classLabel(class int) string {
	if class == 1 {
		return "SPAM"
	}
	return "HAM"
}

// absPath returns the absolute form of path, or path itself on failure.
func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
