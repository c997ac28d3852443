package handler

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

func TestSpy(t *testing.T) {
	rec := logging.NewRecorder()
	s, err := NewSpy(WithSpyLogger(slog.New(rec)))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	{
		m := types.NewMessage(AustinPowers, "d", "Hi")
		r, err := s.Process(m)
		assert.NoError(t, err)
		assert.Equal(t, types.Mail(m), r)
		records := rec.Records()
		if assert.Len(t, records, 1) {
			assert.Equal(t, slog.LevelWarn, records[0].Level)
			attrs := logging.Attrs(records[0])
			assert.Equal(t, AustinPowers, attrs["from"].String())
			assert.Equal(t, "d", attrs["to"].String())
			assert.Equal(t, "Hi", attrs["message"].String())
		}
	}
	rec.Reset()
	{
		m := types.NewMessage("x", "y", "Hi")
		r, err := s.Process(m)
		assert.NoError(t, err)
		assert.Equal(t, types.Mail(m), r)
		records := rec.Records()
		if assert.Len(t, records, 1) {
			assert.Equal(t, slog.LevelInfo, records[0].Level)
			attrs := logging.Attrs(records[0])
			assert.Equal(t, "x", attrs["from"].String())
			assert.Equal(t, "y", attrs["to"].String())
			_, ok := attrs["message"]
			assert.False(t, ok)
		}
	}
}

func TestSpyWatchesRecipient(t *testing.T) {
	rec := logging.NewRecorder()
	s, err := NewSpy(WithSpyLogger(slog.New(rec)))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = s.Process(types.NewMessage("d", AustinPowers, "Hi"))
	assert.NoError(t, err)
	records := rec.Records()
	if assert.Len(t, records, 1) {
		assert.Equal(t, slog.LevelWarn, records[0].Level)
	}
}

func TestSpyOnParcel(t *testing.T) {
	rec := logging.NewRecorder()
	s, err := NewSpy(WithSpyLogger(slog.New(rec)), WithWatchedIdentities("Dr. Evil"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	p := types.NewParcel("Dr. Evil", "z", types.NewPackage("laser", 1000000))
	r, err := s.Process(p)
	assert.NoError(t, err)
	assert.Equal(t, types.Mail(p), r)
	_, err = s.Process(types.NewParcel(AustinPowers, "z", types.NewPackage("mojo", 1)))
	assert.NoError(t, err)
	records := rec.Records()
	if assert.Len(t, records, 2) {
		assert.Equal(t, slog.LevelWarn, records[0].Level)
		attrs := logging.Attrs(records[0])
		assert.Equal(t, "laser", attrs["content"].String())
		assert.Equal(t, int64(1000000), attrs["price"].Int64())
		assert.Equal(t, slog.LevelInfo, records[1].Level)
	}
}

func TestSpyOptions(t *testing.T) {
	_, err := NewSpy(WithWatchedIdentities("a", ""))
	assert.Error(t, err)
	s, err := NewSpy(WithWatchedIdentities())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Empty(t, s.WatchedIdentities())
	s, err = NewSpy(WithSpyLogger(nil))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, []string{AustinPowers}, s.WatchedIdentities())
	_, err = s.Process(types.NewMessage(AustinPowers, "d", "Hi"))
	assert.NoError(t, err)
}
