package userdata

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		EnvID:        "poc9",
		Username:     "admin_poc9",
		Password:     "Abc123Xyz456Qwe789Rt",
		Region:       "ap-south-1",
		BaseDomain:   "poc.saas.prezm.com",
		HostedZoneID: "Z0123456789ABC",
	}
}

func TestRenderInterpolatesEnvironmentValues(t *testing.T) {
	script, err := Render(testParams())
	require.NoError(t, err)

	assert.Contains(t, script, "KASM_USER='admin_poc9'")
	assert.Contains(t, script, "KASM_PASS='Abc123Xyz456Qwe789Rt'")
	assert.Contains(t, script, "SUBDOMAIN='poc9'")
	assert.Contains(t, script, "BASE_DOMAIN='poc.saas.prezm.com'")
	assert.Contains(t, script, "REGION='ap-south-1'")
	assert.Contains(t, script, "HOSTED_ZONE_ID='Z0123456789ABC'")
}

func TestRenderPinsToolVersions(t *testing.T) {
	script, err := Render(testParams())
	require.NoError(t, err)

	assert.Contains(t, script, "kasm_release_1.18.1.tar.gz")
	assert.Contains(t, script, "DOCKER_COMPOSE_VERSION='2.40.2'")
	assert.Contains(t, script, "--swap-size 8192")
}

func TestRenderStepOrdering(t *testing.T) {
	script, err := Render(testParams())
	require.NoError(t, err)

	steps := []string{
		"apt update",
		"mkswap /swapfile",
		"kasm_release/install.sh",
		"sleep 60",
		"describe-addresses",
		"change-resource-record-sets",
		"docker stop kasm_proxy",
		"certbot certonly",
		"docker start kasm_proxy",
	}

	last := -1
	for _, step := range steps {
		idx := strings.Index(script, step)
		require.GreaterOrEqual(t, idx, 0, "script is missing step %q", step)
		assert.Greater(t, idx, last, "step %q out of order", step)
		last = idx
	}
}

func TestRenderRequiresEnvID(t *testing.T) {
	params := testParams()
	params.EnvID = ""
	_, err := Render(params)
	assert.Error(t, err)
}

func TestRenderRequiresPassword(t *testing.T) {
	params := testParams()
	params.Password = ""
	_, err := Render(params)
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	script, err := Render(testParams())
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(Encode(script))
	require.NoError(t, err)
	assert.Equal(t, script, string(decoded))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'plain'", Quote("plain"))
	assert.Equal(t, "''", Quote(""))
	assert.Equal(t, `'a'\''b'`, Quote("a'b"))
	assert.Equal(t, "'$HOME `id`'", Quote("$HOME `id`"))
}
