// SPDX-License-Identifier: Unlicense OR MIT

package dl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissing(t *testing.T) {
	l, err := Open("libdoes-not-exist-mochi.so.42")
	require.Error(t, err)
	assert.Nil(t, l)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNilLibrary(t *testing.T) {
	var l *Library
	assert.Equal(t, "", l.Name())
	assert.Zero(t, l.Sym("anything"))
	assert.NoError(t, l.Close())
}

func TestBindMissingRequired(t *testing.T) {
	var f func()
	err := Bind([]Func{{Ptr: &f, Name: "glNothing"}}, func(string) uintptr { return 0 })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glNothing")
	assert.Nil(t, f)
}

func TestBindMissingOptional(t *testing.T) {
	var f func()
	err := Bind([]Func{{Ptr: &f, Name: "glNothing", Optional: true}}, nil, func(string) uintptr { return 0 })
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestStrings(t *testing.T) {
	p := CString("mesa")
	assert.Equal(t, "mesa", GoString(p))
	assert.Equal(t, "", GoString(nil))
}

func TestOpenNoNames(t *testing.T) {
	_, err := Open()
	assert.ErrorIs(t, err, ErrNotFound)
}
