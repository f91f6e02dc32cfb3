package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrants(t *testing.T) {
	grants, err := parseGrants("")
	require.NoError(t, err)
	assert.Empty(t, grants)

	grants, err = parseGrants("alice:WHSP:1000, bob:WHSP:500")
	require.NoError(t, err)
	assert.Equal(t, []mintGrant{
		{account: "alice", token: "WHSP", amount: 1000},
		{account: "bob", token: "WHSP", amount: 500},
	}, grants)

	_, err = parseGrants("alice:WHSP")
	assert.Error(t, err)

	_, err = parseGrants("alice:WHSP:lots")
	assert.Error(t, err)
}
