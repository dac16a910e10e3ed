package main

import (
	"fmt"
	"os"

	"github.com/debemdeboas/the-showcase/internal/config"
	"gopkg.in/yaml.v3"
)

const header = "# The Showcase configuration example\n# Copy this file to config.yaml and customize as needed.\n# Secrets (ED25519_PUBKEY, CLERK_API, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY) go in .env\n\n"

func generate() ([]byte, error) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return append([]byte(header), yamlData...), nil
}

func main() {
	output, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
