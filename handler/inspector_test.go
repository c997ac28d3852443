package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moriyoshi/untrustworthy-mail/types"
)

func TestInspector(t *testing.T) {
	inspector, err := NewInspector()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	cases := []struct {
		description string
		kind        error
	}{
		{"stones instead of Something valuable", types.ErrStolenPackage},
		{"weapons", types.ErrIllegalPackage},
		{"a little banned substance", types.ErrIllegalPackage},
		{"stones and weapons", types.ErrStolenPackage},
		{"weapons and stones", types.ErrStolenPackage},
		{"Something valuable", nil},
		{"Weapons", nil},
	}
	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			p := types.NewParcel("x", "y", types.NewPackage(c.description, 10))
			r, err := inspector.Process(p)
			if c.kind == nil {
				assert.NoError(t, err)
				assert.Equal(t, types.Mail(p), r)
				return
			}
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, c.kind))
			assert.Equal(t, c.kind, types.RejectionKind(err))
			var re *types.RejectionError
			if assert.True(t, errors.As(err, &re)) {
				assert.Equal(t, types.Mail(p), re.Mail)
				assert.Equal(t, "inspector", re.Handler)
			}
		})
	}
}

func TestInspectorIgnoresMessages(t *testing.T) {
	inspector, err := NewInspector()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	for _, body := range []string{"stones", "weapons", "banned substance", ""} {
		m := types.NewMessage("x", "y", body)
		r, err := inspector.Process(m)
		assert.NoError(t, err)
		assert.Equal(t, types.Mail(m), r)
	}
}

func TestInspectorOptions(t *testing.T) {
	inspector, err := NewInspector(
		WithStolenMarker("pebbles"),
		WithForbiddenContents("cheese"),
	)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = inspector.Process(types.NewParcel("x", "y", types.NewPackage("pebbles", 0)))
	assert.True(t, errors.Is(err, types.ErrStolenPackage))
	_, err = inspector.Process(types.NewParcel("x", "y", types.NewPackage("old cheese", 0)))
	assert.True(t, errors.Is(err, types.ErrIllegalPackage))
	_, err = inspector.Process(types.NewParcel("x", "y", types.NewPackage("stones and weapons", 0)))
	assert.NoError(t, err)

	_, err = NewInspector(WithStolenMarker(""))
	assert.Error(t, err)
	_, err = NewInspector(WithForbiddenContents("ok", ""))
	assert.Error(t, err)
}

func TestThiefThenInspector(t *testing.T) {
	thief, err := NewThief(1000)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	inspector, err := NewInspector()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	{
		stolen, err := thief.Process(types.NewParcel(AustinPowers, "z", types.NewPackage("Something valuable", 1000)))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.Equal(t, int64(1000), thief.StolenValue())
		_, err = inspector.Process(stolen)
		assert.True(t, errors.Is(err, types.ErrStolenPackage))
	}
	{
		p := types.NewParcel(AustinPowers, "z", types.NewPackage("Something valuable", 500))
		kept, err := thief.Process(p)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		r, err := inspector.Process(kept)
		assert.NoError(t, err)
		assert.Equal(t, types.Mail(p), r)
		assert.Equal(t, int64(1000), thief.StolenValue())
	}
}

func TestDelivery(t *testing.T) {
	d, err := NewDelivery()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	m := types.NewMessage("x", "y", "Hi")
	r, err := d.Process(m)
	assert.NoError(t, err)
	assert.Equal(t, types.Mail(m), r)
}
