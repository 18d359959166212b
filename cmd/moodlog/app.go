package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/pbaille/moodlog/internal/capture"
	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/diary"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/logging"
	"github.com/pbaille/moodlog/internal/speech"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/trend"
)

// newLogger is swapped out by tests
var newLogger = logging.New

// app is the wiring shared by every subcommand
type app struct {
	cfg   *config.Config
	log   *logging.Logger
	blob  kv.Blob
	store *store.Store
}

func openApp(component string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	log, err := newLogger(component)
	if err != nil {
		log.Warnf("log file unavailable: %v", err)
	}

	blob, err := cfg.OpenBlob()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	log.Debugf("storage: %s at %s", cfg.Storage.Backend, cfg.StoragePath())

	return &app{
		cfg:   cfg,
		log:   log,
		blob:  blob,
		store: store.New(blob, store.WithLogger(log.With("store"))),
	}, nil
}

func (a *app) Close() error {
	err := a.blob.Close()
	a.log.Close()
	return err
}

func (a *app) speaker() speech.Speaker {
	if !a.cfg.Speech.Enabled {
		return speech.Nop{}
	}
	return speech.NewCommand(a.cfg.Speech.Command, a.log.With("speech"))
}

// session reads typed transcripts from in, prompting on prompt
func (a *app) session(in io.Reader, prompt io.Writer) *diary.Session {
	return diary.NewSession(a.store, classifier.Default(),
		diary.WithSpeaker(a.speaker()),
		diary.WithCapturer(capture.NewTyped(in, prompt, "> ")),
		diary.WithLogger(a.log.With("session")),
	)
}

func (a *app) trend() *trend.Aggregator {
	return trend.New(a.cfg.TrendWindow(), a.cfg.Formatter())
}

// explain turns an operation error into the user-facing message
func explain(err error) error {
	return errors.New(diary.Explain(err).String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
