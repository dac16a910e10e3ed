// Command sign signs login challenges with the operator's Ed25519 key.
package main

import (
	"bufio"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func parsePrivateKey(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}
	privKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	edPriv, ok := privKey.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an Ed25519 private key")
	}
	return edPriv, nil
}

// signChallenge decodes a base64 challenge and returns the base64 signature.
func signChallenge(key ed25519.PrivateKey, challengeB64 string) (string, error) {
	challenge, err := base64.StdEncoding.DecodeString(strings.TrimSpace(challengeB64))
	if err != nil {
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ed25519.Sign(key, challenge)), nil
}

// run reads challenges line by line until EOF or "quit".
func run(key ed25519.PrivateKey, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Enter challenges one by one. Type 'quit' to exit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("Enter challenge (base64): "))
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		sig, err := signChallenge(key, line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, outputStyle.Render("Signature: "+sig))
	}
	return scanner.Err()
}

func main() {
	keyPath := flag.String("key", "privkey.pem", "PKCS#8 PEM file with the Ed25519 private key")
	flag.Parse()

	data, err := os.ReadFile(*keyPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading private key:", err)
		os.Exit(1)
	}
	key, err := parsePrivateKey(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading private key:", err)
		os.Exit(1)
	}

	if err := run(key, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
		os.Exit(1)
	}
}
