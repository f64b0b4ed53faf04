package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/config"
	"github.com/ziadkadry99/cerebro/internal/intent"
	"github.com/ziadkadry99/cerebro/internal/llm"
)

func TestOpenAppWithoutCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	a, err := openApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	a.recorder.Start(context.Background())

	assert.Nil(t, a.index)
	assert.FileExists(t, cfg.DatabasePath())

	_, err = a.pipeline.Run(context.Background(), assistant.Request{
		Messages: []assistant.Turn{{Role: "user", Content: "quero um roteiro de reels"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrConfiguration))
	assert.Equal(t, "configuration", assistant.ErrorKind(err))
}

func TestLoadClassifierFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.yml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - category: video_library\n    patterns: [\"webinar\"]\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.IntentsFile = path
	c, err := loadClassifier(cfg)
	require.NoError(t, err)
	assert.Equal(t, intent.CategoryVideoLibrary, c.Classify("tem webinar hoje?").Category)

	cfg.IntentsFile = filepath.Join(t.TempDir(), "missing.yml")
	_, err = loadClassifier(cfg)
	assert.Error(t, err)
}

func TestLoadConfigValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cerebro.yml")
	require.NoError(t, os.WriteFile(path, []byte("provider: cohere\n"), 0o644))

	old := cfgFile
	cfgFile = path
	defer func() { cfgFile = old }()

	_, err := loadConfig()
	assert.Error(t, err)
}
