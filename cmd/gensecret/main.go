// Generates a random hex secret suitable for the SECRET_KEY setting.
// Usage: gensecret [bytes]
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

const defaultKeyBytesLen = 32

func main() {
	n := defaultKeyBytesLen
	if len(os.Args) > 1 {
		parsed, err := strconv.Atoi(os.Args[1])
		if err != nil || parsed <= 0 {
			fmt.Printf("invalid key length %q, expected a positive number of bytes\n", os.Args[1])
			os.Exit(1)
		}
		n = parsed
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
