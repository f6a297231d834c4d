package wallet

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// normaliseHexKey
// ---------------------------------------------------------------------------

func TestNormaliseHexKey(t *testing.T) {
	cases := map[string]string{
		"0xabc123":            "abc123",
		"0Xabc123":            "abc123",
		"abc123":              "abc123",
		"  0xabc  ":           "abc",
		"0x":                  "",
		"":                    "",
		"0x" + testPrivKeyHex: testPrivKeyHex,
	}
	for in, want := range cases {
		assert.Equal(t, want, normaliseHexKey(in), in)
	}
}

// ---------------------------------------------------------------------------
// Keystore
// ---------------------------------------------------------------------------

func TestKeystoreFileBackendRoundTrip(t *testing.T) {
	ks := testKeystore(t)

	ref, err := ks.Store("alice", "0x"+testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "bidcli.alice", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)

	assert.NoError(t, ks.Delete(ref), "deleting twice is fine")
}

func TestKeystoreEnvOverride(t *testing.T) {
	t.Setenv(envKey, "0x"+testPrivKeyHex)

	got, err := nullKeystore().Retrieve("bidcli.any-ref")
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)
}

func TestKeystoreNilRing(t *testing.T) {
	t.Setenv(envKey, "")
	ks := nullKeystore()
	_, err := ks.Store("x", "y")
	assert.Error(t, err)
	_, err = ks.Retrieve("bidcli.x")
	assert.Error(t, err)
	assert.NoError(t, ks.Delete("bidcli.x"))
}

// ---------------------------------------------------------------------------
// InMemoryKeystore
// ---------------------------------------------------------------------------

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("bob", "0xdead")
	require.NoError(t, err)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "dead", got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

// testKeystore returns a file-backed Keystore isolated to a temp directory.
// Using the FileBackend avoids OS keychain prompts in CI.
func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      "bidcli-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("testpass"),
	})
	require.NoError(t, err)
	return &Keystore{ring: ring}
}

// nullKeystore has ring=nil; only the env override can serve it.
func nullKeystore() *Keystore { return &Keystore{ring: nil} }
