package offchain

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashKnownVector(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", GetHash(nil))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", GetHash([]byte("abc")))
}

func TestVerifyHash(t *testing.T) {
	payload := `{"x":1}`
	hash := GetHash([]byte(payload))

	assert.True(t, VerifyHash(payload, hash))
	assert.True(t, VerifyHash(payload, hexUpper(hash)))
	assert.False(t, VerifyHash(`{"x":2}`, hash))
	assert.False(t, VerifyHash(payload+" ", hash))
	assert.False(t, VerifyHash(payload, ""))
	assert.False(t, VerifyHash(payload, "not-a-hash"))
}

func TestVerifySignatureLegacyAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := GetHash([]byte(`{"x":1}`))

	for _, compressed := range []bool{true, false} {
		address := PubKeyToAddress(&key.PublicKey, MainNet, compressed)
		assert.Equal(t, byte('S'), address[0])

		sig, err := SignMessage(hash, key, compressed)
		require.NoError(t, err)

		assert.True(t, VerifySignature(hash, sig, address), "compressed=%v", compressed)
		assert.False(t, VerifySignature(GetHash([]byte("other")), sig, address))
	}
}

func TestVerifySignatureTestnetAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := GetHash([]byte("payload"))
	address := PubKeyToAddress(&key.PublicKey, TestNet, true)
	assert.Equal(t, byte('T'), address[0])

	sig, err := SignMessage(hash, key, true)
	require.NoError(t, err)
	assert.True(t, VerifySignature(hash, sig, address))
}

func TestVerifySignatureWitnessAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	address, err := PubKeyToWitnessAddress(&key.PublicKey, MainNet)
	require.NoError(t, err)
	assert.Contains(t, address, "sys1")

	hash := GetHash([]byte("payload"))
	sig, err := SignMessage(hash, key, true)
	require.NoError(t, err)
	assert.True(t, VerifySignature(hash, sig, address))

	uncompressed, err := SignMessage(hash, key, false)
	require.NoError(t, err)
	assert.False(t, VerifySignature(hash, uncompressed, address))
}

func TestVerifySignatureHexEncoding(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := GetHash([]byte("payload"))
	sig, err := SignMessage(hash, key, true)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)

	address := PubKeyToAddress(&key.PublicKey, MainNet, true)
	assert.True(t, VerifySignature(hash, hex.EncodeToString(raw), address))
}

func TestVerifySignatureRejectsOtherKey(t *testing.T) {
	owner, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := GetHash([]byte("payload"))
	sig, err := SignMessage(hash, other, true)
	require.NoError(t, err)

	assert.False(t, VerifySignature(hash, sig, PubKeyToAddress(&owner.PublicKey, MainNet, true)))
}

func TestVerifySignatureMalformedInput(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := GetHash([]byte("payload"))
	sig, err := SignMessage(hash, key, true)
	require.NoError(t, err)
	address := PubKeyToAddress(&key.PublicKey, MainNet, true)

	raw, _ := base64.StdEncoding.DecodeString(sig)
	badHeader := append([]byte{0x01}, raw[1:]...)

	cases := map[string]struct {
		sig     string
		address string
	}{
		"empty signature":     {"", address},
		"not base64":          {"%%%%", address},
		"short signature":     {base64.StdEncoding.EncodeToString(raw[:40]), address},
		"bad header":          {base64.StdEncoding.EncodeToString(badHeader), address},
		"empty address":       {sig, ""},
		"garbage address":     {sig, "not-an-address"},
		"bad checksum":        {sig, address[:len(address)-1] + flipChar(address[len(address)-1])},
		"foreign version":     {sig, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"},
		"malformed witness":   {sig, "sys1qqqqqq"},
	}

	for name, tc := range cases {
		assert.False(t, VerifySignature(hash, tc.sig, tc.address), name)
	}
}

func hexUpper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func flipChar(c byte) string {
	if c == 'a' {
		return "b"
	}
	return "a"
}
