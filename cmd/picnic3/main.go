// MIT License
//
// Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command picnic3 is a minimal demonstration CLI: generate a keypair,
// sign a message, verify the signature, and print sizes. Choosing and
// tuning parameter sets is explicitly out of scope (§1's Non-goals),
// so the dimensions below are a single fixed demo instance, not a
// selectable parameter set.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"github.com/sphinx-core/picnic3/internal/auditlog"
	"github.com/sphinx-core/picnic3/internal/lowmc"
	logger "github.com/sphinx-core/picnic3/log"
	"github.com/sphinx-core/picnic3/params"
	"github.com/sphinx-core/picnic3/picnic3"
)

func demoBundle() *params.Bundle {
	b, err := params.New(
		16, // N parties
		16, // T rounds
		7,  // Tau opened rounds
		128, 4, 10, // LowMC N/R/M
		16, // seed size
		32, // digest size
		46, // view size (>= ceil((128+6*4*10)/8) = 46, the msgs transcript)
		16, // input/output size
	)
	if err != nil {
		logger.Fatalf("demo bundle: %v", err)
	}
	return b
}

func main() {
	message := flag.String("message", "sign me", "message to sign")
	auditPath := flag.String("audit-db", "", "path to a LevelDB audit log; disabled if empty")
	flag.Parse()

	b := demoBundle()
	dims := lowmc.Dimensions{N: b.LowMCN, R: b.LowMCR, M: b.LowMCM}

	privateKey := make([]byte, b.InputOutputSize)
	plaintext := make([]byte, b.InputOutputSize)
	if _, err := rand.Read(privateKey); err != nil {
		logger.Fatalf("generating private key: %v", err)
	}
	if _, err := rand.Read(plaintext); err != nil {
		logger.Fatalf("generating plaintext: %v", err)
	}
	pubKey := lowmc.Evaluate(dims, privateKey, plaintext)

	sig, err := picnic3.Sign(b, privateKey, pubKey, plaintext, []byte(*message))
	if err != nil {
		logger.Fatalf("sign: %v", err)
	}

	encoded, err := picnic3.Serialize(b, sig)
	if err != nil {
		logger.Fatalf("serialize: %v", err)
	}

	decoded, err := picnic3.Deserialize(b, encoded)
	if err != nil {
		logger.Fatalf("deserialize: %v", err)
	}

	chRoot, cvRoot, err := picnic3.VerifyRoots(b, pubKey, plaintext, []byte(*message), decoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify failed: %v\n", err)
		os.Exit(1)
	}

	if *auditPath != "" {
		audit, err := auditlog.Open(*auditPath)
		if err != nil {
			logger.Fatalf("audit log open: %v", err)
		}
		defer audit.Close()

		record := &auditlog.Record{
			Salt:      decoded.Salt,
			Challenge: decoded.Challenge,
			ChRoot:    chRoot,
			CvRoot:    cvRoot,
			CreatedAt: time.Now().Unix(),
		}
		if err := audit.Store(decoded.Challenge, record); err != nil {
			logger.Fatalf("audit log store: %v", err)
		}
	}

	fmt.Printf("public key:  %s\n", base58.Encode(pubKey))
	fmt.Printf("plaintext:   %s\n", base58.Encode(plaintext))
	fmt.Printf("signature:   %d bytes (%s...)\n", len(encoded), base58.Encode(encoded[:16]))
	fmt.Println("verification: ok")
}
