package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// promptPassphrase reads a passphrase without echoing it. When stdin is
// not a terminal (tests, pipes) it falls back to a plain line read.
func promptPassphrase(prompt string) (string, error) {
	fmt.Print(prompt)

	if !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		passphrase, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase from stdin: %w", err)
		}
		return strings.TrimSpace(passphrase), nil
	}

	passphraseBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	fmt.Println()

	return string(passphraseBytes), nil
}

// promptNewPassphrase prompts twice and enforces minimal strength before a
// key is created.
func promptNewPassphrase() (string, error) {
	passphrase, err := promptPassphrase("Enter passphrase for key encryption: ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if passphrase != confirm {
		return "", fmt.Errorf("passphrases do not match")
	}
	if err := validatePassphraseStrength(passphrase); err != nil {
		return "", err
	}
	return passphrase, nil
}

func validatePassphraseStrength(passphrase string) error {
	if len(passphrase) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters long")
	}
	return nil
}

// readMnemonic reads a mnemonic phrase from stdin. Validation happens in
// the keystore engine before any file is written.
func readMnemonic() (string, error) {
	fmt.Print("Enter your mnemonic phrase: ")
	reader := bufio.NewReader(os.Stdin)
	mnemonic, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}
	return strings.TrimSpace(mnemonic), nil
}
