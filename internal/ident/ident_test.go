package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/ident"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name          string
		raw           string
		wantADQL      string
		wantCaseSens  bool
		wantErrSubstr string
	}{
		{name: "plain", raw: "foo", wantADQL: "foo", wantCaseSens: false},
		{name: "trims whitespace", raw: "  foo  ", wantADQL: "foo", wantCaseSens: false},
		{name: "delimited", raw: `"Foo"`, wantADQL: "Foo", wantCaseSens: true},
		{name: "delimited with escaped quote", raw: `"Fo""o"`, wantADQL: `Fo"o`, wantCaseSens: true},
		{name: "empty fails", raw: "", wantErrSubstr: "Missing ADQL name"},
		{name: "whitespace only fails", raw: "   ", wantErrSubstr: "Missing ADQL name"},
		{name: "empty delimited fails", raw: `""`, wantErrSubstr: "Missing ADQL name"},
		{name: "blank delimited fails", raw: `" "`, wantErrSubstr: "Missing ADQL name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ident.New(tc.raw)
			if tc.wantErrSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantADQL, id.ADQLName())
			assert.Equal(t, tc.wantCaseSens, id.CaseSensitive())
		})
	}
}

func TestDenormalizeRoundTrip(t *testing.T) {
	cases := []struct {
		name          string
		caseSensitive bool
	}{
		{name: "foo", caseSensitive: false},
		{name: "Foo", caseSensitive: true},
		{name: `Fo"o`, caseSensitive: true},
	}
	for _, tc := range cases {
		out := ident.Denormalize(tc.name, tc.caseSensitive)
		id, err := ident.New(out)
		require.NoError(t, err)
		assert.Equal(t, tc.name, id.ADQLName())
	}
}

func TestMatchesToken(t *testing.T) {
	csAdql, err := ident.New(`"CS_ADQLTable"`)
	require.NoError(t, err)

	assert.False(t, csAdql.MatchesToken("cs_adqltable", false), "undelimited lookup against case-sensitive stored name must fail when case differs")
	assert.True(t, csAdql.MatchesToken("CS_ADQLTable", false), "undelimited lookup matching stored canonical case exactly must pass")
	assert.False(t, csAdql.MatchesToken("cs_adqltable", true), "delimited lookup requires exact spelling match only")
	assert.True(t, csAdql.MatchesToken("CS_ADQLTable", true))

	plain, err := ident.New("foo")
	require.NoError(t, err)
	assert.True(t, plain.MatchesToken("FOO", false))
	assert.False(t, plain.MatchesToken("FOO", true))
}
