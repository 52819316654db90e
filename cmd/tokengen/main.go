// Command tokengen prints a high-entropy bearer token for operator-driven
// provisioning: hex SHA-512 of the current Unix millisecond timestamp
// concatenated with 128 random bytes.
package main

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

func main() {
	token, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func generate() (string, error) {
	buf := make([]byte, 128)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	timestamp := time.Now().UnixMilli()
	sum := sha512.Sum512([]byte(fmt.Sprintf("%d.%s", timestamp, hex.EncodeToString(buf))))
	return hex.EncodeToString(sum[:]), nil
}
