// Package sshkeys generates and loads the RSA keypair injected into
// provisioned instances. Keys are written once and reused on subsequent
// runs so instance access survives re-deploys.
package sshkeys

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

const keyBits = 4096

// KeyPair holds the on-disk locations and the authorized-keys line of a
// generated or loaded keypair.
type KeyPair struct {
	PrivateKeyPath string
	PublicKeyPath  string
	// AuthorizedKey is the single-line OpenSSH public key, without a
	// trailing newline, as expected in cloud-init ssh_authorized_keys.
	AuthorizedKey string
	// Generated reports whether this run created the key files.
	Generated bool
}

// Ensure returns the keypair rooted at privateKeyPath, generating it when
// the private key file does not exist yet. An existing private key is
// never overwritten; its public half is re-derived so the two files can
// not drift apart.
func Ensure(privateKeyPath string) (KeyPair, error) {
	publicKeyPath := privateKeyPath + ".pub"

	if _, err := os.Stat(privateKeyPath); err == nil {
		authorized, err := loadAuthorizedKey(privateKeyPath, publicKeyPath)
		if err != nil {
			return KeyPair{}, err
		}
		return KeyPair{
			PrivateKeyPath: privateKeyPath,
			PublicKeyPath:  publicKeyPath,
			AuthorizedKey:  authorized,
		}, nil
	} else if !os.IsNotExist(err) {
		return KeyPair{}, fmt.Errorf("stat %s: %w", privateKeyPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(privateKeyPath), 0o700); err != nil {
		return KeyPair{}, fmt.Errorf("create key directory: %w", err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate RSA key: %w", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	if err := os.WriteFile(privateKeyPath, pemBytes, 0o600); err != nil {
		return KeyPair{}, fmt.Errorf("write private key: %w", err)
	}

	authorized, err := authorizedKey(privateKey)
	if err != nil {
		return KeyPair{}, err
	}
	if err := os.WriteFile(publicKeyPath, []byte(authorized+"\n"), 0o644); err != nil {
		return KeyPair{}, fmt.Errorf("write public key: %w", err)
	}

	return KeyPair{
		PrivateKeyPath: privateKeyPath,
		PublicKeyPath:  publicKeyPath,
		AuthorizedKey:  authorized,
		Generated:      true,
	}, nil
}

// loadAuthorizedKey re-derives the authorized-keys line from the private
// key and rewrites the .pub file when it is missing or stale.
func loadAuthorizedKey(privateKeyPath, publicKeyPath string) (string, error) {
	pemBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return "", fmt.Errorf("private key %s is not PEM encoded", privateKeyPath)
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse private key %s: %w", privateKeyPath, err)
	}

	authorized, err := authorizedKey(privateKey)
	if err != nil {
		return "", err
	}
	existing, err := os.ReadFile(publicKeyPath)
	if err != nil || strings.TrimSpace(string(existing)) != authorized {
		if err := os.WriteFile(publicKeyPath, []byte(authorized+"\n"), 0o644); err != nil {
			return "", fmt.Errorf("rewrite public key: %w", err)
		}
	}
	return authorized, nil
}

func authorizedKey(privateKey *rsa.PrivateKey) (string, error) {
	pubKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return "", fmt.Errorf("derive SSH public key: %w", err)
	}
	return string(bytes.Trim(ssh.MarshalAuthorizedKey(pubKey), "\x0a")), nil
}
