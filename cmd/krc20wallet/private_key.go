package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

func parsePrivateKey(privateKeyHex string) (*secp256k1.SchnorrKeyPair, error) {
	privateKeyBytes, err := hex.DecodeString(strings.TrimSpace(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(err, "the private key must be hex encoded")
	}
	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(privateKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return keyPair, nil
}

// privateKey returns the key of --private-key, prompting for it when the
// flag is empty
func (sf *SpendFlags) privateKey() (*secp256k1.SchnorrKeyPair, error) {
	privateKeyHex := sf.PrivateKey
	if privateKeyHex == "" {
		input, err := readSecret("Private key (hex): ")
		if err != nil {
			return nil, err
		}
		privateKeyHex = string(input)
	}
	return parsePrivateKey(privateKeyHex)
}

// readSecret reads a line from the terminal without echoing it
func readSecret(prompt string) ([]byte, error) {
	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return nil, errors.New("--private-key is required when stdin is not a terminal")
	}
	initialTermState, err := term.GetState(stdin)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Restore the terminal in the event of an interrupt.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupt:
			_ = term.Restore(stdin, initialTermState)
			os.Exit(1)
		case <-done:
		}
	}()
	defer signal.Stop(interrupt)

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return secret, nil
}
