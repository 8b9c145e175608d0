package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews/internal/classifier"
	"fakenews/internal/detector"
	"fakenews/internal/keyword"
)

type fixedAnalyzer classifier.Analysis

func (f fixedAnalyzer) Analyze(ctx context.Context, text string) classifier.Analysis {
	return classifier.Analysis(f)
}

func stubOpener(a classifier.Analysis) opener {
	return func(ctx context.Context, _ string) (textClassifier, *keyword.Scorer, func(), error) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return detector.New(fixedAnalyzer(a), nil, "", logger), keyword.NewScorer(nil), func() {}, nil
	}
}

func run(t *testing.T, open opener, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

var fake = classifier.Analysis{IsFake: true, Confidence: 0.9, Message: "Fake news confidence: 90.00%"}

func TestClassify_Args(t *testing.T) {
	out, err := run(t, stubOpener(fake), "", "aliens", "endorse", "candidate")

	require.NoError(t, err)
	var p detector.Prediction
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "FAKE", p.Prediction)
	assert.Equal(t, "0.9000", p.Confidence)
	assert.Equal(t, "aliens endorse candidate...", p.TextPreview)
}

func TestClassify_StdinDetailed(t *testing.T) {
	out, err := run(t, stubOpener(fake), "story from a pipe", "--detailed")

	require.NoError(t, err)
	var d detector.Detail
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.IsFake)
	assert.Equal(t, 0.9, d.ConfidenceScore)
	assert.Equal(t, "distilbert-base-uncased", d.Model)
}

func TestClassify_Keywords(t *testing.T) {
	out, err := run(t, stubOpener(classifier.Analysis{}), "", "--keywords", "a", "miracle", "cure")

	require.NoError(t, err)
	var r struct {
		Result      detector.Prediction `json:"result"`
		KeywordFlag bool                `json:"keyword_flag"`
		Term        string              `json:"keyword_term"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "REAL", r.Result.Prediction)
	assert.True(t, r.KeywordFlag)
	assert.Equal(t, "miracle", r.Term)
}

func TestClassify_EmptyInput(t *testing.T) {
	_, err := run(t, stubOpener(fake), "   \n")

	assert.ErrorIs(t, err, detector.ErrInvalidInput)
}

func TestClassify_OpenError(t *testing.T) {
	failing := func(context.Context, string) (textClassifier, *keyword.Scorer, func(), error) {
		return nil, nil, nil, errors.New("bad config")
	}

	_, err := run(t, failing, "", "text")

	assert.EqualError(t, err, "bad config")
}
