package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateBookingReference produces a human-readable reference like
// BK-LX2K9F-A7QZ.
func GenerateBookingReference() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().Unix(), 36))
	random := strings.ToUpper(GenerateRandomString(4))
	return fmt.Sprintf("%s-%s-%s", BookingReferencePrefix, timestamp, random)
}
