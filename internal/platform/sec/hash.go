// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Confirmation code bounds: six decimal digits.
const (
	codeMin = 100000
	codeMax = 999999
)

// HashSecret hashes a short-lived secret (a confirmation code) with bcrypt.
func HashSecret(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckSecretHash compares a plain secret with its bcrypt hash in constant time.
func CheckSecretHash(plain, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plain)) == nil
}

// GenerateConfirmationCode returns a uniformly random six-digit code.
func GenerateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
