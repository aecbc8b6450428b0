// offchainctl prepares signed request bodies for the off-chain proxy. The
// private key never leaves this process.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/totegamma/syscoin-offchain"
)

func main() {
	payloadPath := flag.String("payload", "", "file holding the JSON payload to sign")
	keyHex := flag.String("key", os.Getenv("OFFCHAIN_KEY"), "hex encoded secp256k1 private key")
	report := flag.Bool("report", false, "build a /reportoffer body instead of an /aliasdata body")
	testnet := flag.Bool("testnet", false, "derive testnet addresses")
	flag.Parse()

	if *payloadPath == "" || *keyHex == "" {
		flag.Usage()
		os.Exit(2)
	}

	payload, err := os.ReadFile(*payloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read payload: %v\n", err)
		os.Exit(1)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(*keyHex), "0x"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid private key: %v\n", err)
		os.Exit(1)
	}

	network := offchain.MainNet
	if *testnet {
		network = offchain.TestNet
	}
	address := offchain.PubKeyToAddress(&key.PublicKey, network, true)

	hash := offchain.GetHash(payload)
	signedHash, err := offchain.SignMessage(hash, key, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign: %v\n", err)
		os.Exit(1)
	}

	offchain.JsonPrint("address", address)
	if *report {
		offchain.JsonPrint("request", offchain.ReportRequest{
			Payload:    string(payload),
			Hash:       hash,
			SignedHash: signedHash,
			Address:    address,
		})
		return
	}
	offchain.JsonPrint("request", offchain.AliasDataRequest{
		Payload:    string(payload),
		Hash:       hash,
		SignedHash: signedHash,
	})
}
