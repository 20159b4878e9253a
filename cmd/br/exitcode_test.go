package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeMapping(t *testing.T) {
	var err error = errNoDaemon()
	ce, ok := err.(*cliError)
	assert.True(t, ok)
	assert.Equal(t, 2, ce.code)

	err = errBadInput("bad selector")
	ce, ok = err.(*cliError)
	assert.True(t, ok)
	assert.Equal(t, 2, ce.code)

	err = errNegative("result=false")
	ce, ok = err.(*cliError)
	assert.True(t, ok)
	assert.Equal(t, 1, ce.code)
}

func TestAsCLIErrorMapsToExitTwo(t *testing.T) {
	r := response{status: 500, body: []byte("boom")}
	err := asCLIError(r)
	ce, ok := err.(*cliError)
	assert.True(t, ok)
	assert.Equal(t, 2, ce.code)
	assert.Contains(t, ce.Error(), "boom")
	assert.Contains(t, ce.Error(), "500")
}
