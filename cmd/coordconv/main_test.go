package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/core/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDMS2DD(t *testing.T) {
	out, err := run(t, "dms2dd", "48", "51", "27")
	require.NoError(t, err)
	assert.Equal(t, "48.857500\n", out)

	out, err = run(t, "dms2dd", "--dir", "W", "74", "17", "50")
	require.NoError(t, err)
	assert.Equal(t, "-74.297222\n", out)
}

func TestDMS2DD_DegreesOnly(t *testing.T) {
	out, err := run(t, "dms2dd", "-d", "S", "12")
	require.NoError(t, err)
	assert.Equal(t, "-12.000000\n", out)
}

func TestDD2DMS(t *testing.T) {
	out, err := run(t, "dd2dms", "--axis", "lon", "--", "-74.2973")
	require.NoError(t, err)
	assert.Equal(t, "74°17'50.28\"W\n", out)
}

func TestDD2DMS_JSON(t *testing.T) {
	out, err := run(t, "--json", "dd2dms", "48.8575")
	require.NoError(t, err)

	var got struct {
		Degrees   int    `json:"degrees"`
		Minutes   int    `json:"minutes"`
		Direction string `json:"direction"`
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 48, got.Degrees)
	assert.Equal(t, 51, got.Minutes)
	assert.Equal(t, "N", got.Direction)
	assert.Equal(t, "48°51'27.00\"N", got.Formatted)
}

func TestNormalize(t *testing.T) {
	out, err := run(t, "normalize", "--dir", "S", "5")
	require.NoError(t, err)
	assert.Equal(t, "-5.000000\n", out)

	_, err = run(t, "normalize", "5")
	assert.Error(t, err, "--dir is required")
}

func TestErrors(t *testing.T) {
	_, err := run(t, "dms2dd", "abc")
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = run(t, "dms2dd", "--dir", "Q", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = run(t, "--reject-out-of-range", "dms2dd", "10", "75")
	assert.ErrorIs(t, err, domain.ErrOutOfRange)

	out, err := run(t, "dms2dd", "10", "75")
	require.NoError(t, err)
	assert.Equal(t, "11.250000\n", out)
}
