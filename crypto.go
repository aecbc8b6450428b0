package offchain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// MessageMagic is prepended to every message before it is signed by a Syscoin
// wallet (signmessage / verifymessage).
const MessageMagic = "Syscoin Signed Message:\n"

const compactSignatureSize = 65

// Network holds the address encoding parameters of a Syscoin network.
type Network struct {
	Name             string
	PubKeyHashAddrID byte
	Bech32HRP        string
}

var (
	MainNet = Network{Name: "mainnet", PubKeyHashAddrID: 63, Bech32HRP: "sys"}
	TestNet = Network{Name: "testnet", PubKeyHashAddrID: 65, Bech32HRP: "tsys"}
)

var networks = []Network{MainNet, TestNet}

// GetHash returns the digest clients must send along with a payload:
// SHA-256 over the exact payload bytes, lowercase hex encoded.
func GetHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether claimedHash is the digest of payload.
func VerifyHash(payload, claimedHash string) bool {
	if claimedHash == "" {
		return false
	}
	return strings.EqualFold(GetHash([]byte(payload)), claimedHash)
}

// VerifySignature reports whether signedHash is a compact message signature over
// hash that recovers to address. Malformed signatures or addresses are reported
// as a failed verification.
func VerifySignature(hash, signedHash, address string) bool {
	sig, ok := decodeSignature(signedHash)
	if !ok {
		return false
	}

	pubKey, compressed, err := recoverPubKey(messageDigest(hash), sig)
	if err != nil {
		return false
	}

	return matchAddress(address, btcutil.Hash160(serializePubKey(pubKey, compressed)), compressed)
}

// SignMessage produces a base64 compact signature over message, in the format
// emitted by `syscoin-cli signmessage`.
func SignMessage(message string, key *ecdsa.PrivateKey, compressed bool) (string, error) {
	sig, err := crypto.Sign(messageDigest(message), key)
	if err != nil {
		return "", err
	}

	header := byte(27) + sig[64]
	if compressed {
		header += 4
	}

	compact := make([]byte, compactSignatureSize)
	compact[0] = header
	copy(compact[1:], sig[:64])
	return base64.StdEncoding.EncodeToString(compact), nil
}

// PubKeyToAddress encodes the legacy pay-to-pubkey-hash address of pub.
func PubKeyToAddress(pub *ecdsa.PublicKey, network Network, compressed bool) string {
	return base58.CheckEncode(btcutil.Hash160(serializePubKey(pub, compressed)), network.PubKeyHashAddrID)
}

// PubKeyToWitnessAddress encodes the bech32 pay-to-witness-pubkey-hash address of pub.
func PubKeyToWitnessAddress(pub *ecdsa.PublicKey, network Network) (string, error) {
	program, err := bech32.ConvertBits(btcutil.Hash160(serializePubKey(pub, true)), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(network.Bech32HRP, append([]byte{0}, program...))
}

func messageDigest(message string) []byte {
	var buf bytes.Buffer
	writeVarString(&buf, MessageMagic)
	writeVarString(&buf, message)

	first := sha256.Sum256(buf.Bytes())
	second := sha256.Sum256(first[:])
	return second[:]
}

func writeVarString(buf *bytes.Buffer, s string) {
	n := uint64(len(s))
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		_ = binary.Write(buf, binary.LittleEndian, uint16(n))
	case n <= 0xffffffff:
		buf.WriteByte(0xfe)
		_ = binary.Write(buf, binary.LittleEndian, uint32(n))
	default:
		buf.WriteByte(0xff)
		_ = binary.Write(buf, binary.LittleEndian, n)
	}
	buf.WriteString(s)
}

// decodeSignature accepts the 65 byte compact signature as base64 or as hex.
func decodeSignature(s string) ([]byte, bool) {
	var (
		sig []byte
		err error
	)
	if len(s) == compactSignatureSize*2 {
		sig, err = hex.DecodeString(s)
	} else {
		sig, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil || len(sig) != compactSignatureSize {
		return nil, false
	}
	return sig, true
}

// recoverPubKey recovers the signing key from a compact signature. Header bytes
// 27-30 mark uncompressed keys, 31-42 compressed ones (including the segwit
// variants wallets emit for p2sh-p2wpkh and p2wpkh addresses).
func recoverPubKey(digest, sig []byte) (*ecdsa.PublicKey, bool, error) {
	header := sig[0]
	if header < 27 || header > 42 {
		return nil, false, fmt.Errorf("invalid signature header %d", header)
	}
	recID := (header - 27) & 3
	compressed := header >= 31

	rsv := make([]byte, compactSignatureSize)
	copy(rsv, sig[1:])
	rsv[64] = recID

	pub, err := crypto.SigToPub(digest, rsv)
	if err != nil {
		return nil, false, err
	}
	return pub, compressed, nil
}

func serializePubKey(pub *ecdsa.PublicKey, compressed bool) []byte {
	if compressed {
		return crypto.CompressPubkey(pub)
	}
	return crypto.FromECDSAPub(pub)
}

func matchAddress(address string, pubKeyHash []byte, compressed bool) bool {
	lower := strings.ToLower(address)
	for _, network := range networks {
		if strings.HasPrefix(lower, network.Bech32HRP+"1") {
			return compressed && matchWitnessAddress(address, network, pubKeyHash)
		}
	}

	decoded, version, err := base58.CheckDecode(address)
	if err != nil {
		return false
	}
	for _, network := range networks {
		if version == network.PubKeyHashAddrID {
			return bytes.Equal(decoded, pubKeyHash)
		}
	}
	return false
}

func matchWitnessAddress(address string, network Network, pubKeyHash []byte) bool {
	hrp, data, err := bech32.Decode(address)
	if err != nil || hrp != network.Bech32HRP || len(data) < 1 || data[0] != 0 {
		return false
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return false
	}
	return bytes.Equal(program, pubKeyHash)
}
