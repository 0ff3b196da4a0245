package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/nbd-wtf/go-nostr/nip04"

	"plebai/internal/domain"
)

// Encrypt seals plaintext for peerPublicKey with the NIP-04 scheme.
//
// The AES key is the ECDH shared point between secretKey and peerPublicKey.
func Encrypt(secretKey, peerPublicKey, plaintext string) (string, error) {
	shared, err := nip04.ComputeSharedSecret(peerPublicKey, secretKey)
	if err != nil {
		return "", fmt.Errorf("compute shared secret: %w", err)
	}
	defer wipe(shared)
	return nip04.Encrypt(plaintext, shared)
}

// Decrypt opens a NIP-04 payload ("<base64 ciphertext>?iv=<base64 iv>")
// received from peerPublicKey.
//
// Unlike nip04.Decrypt, the PKCS#7 padding is checked in full and the result
// must be valid UTF-8, so a payload sealed under a different key is rejected
// instead of decoding to noise.
func Decrypt(secretKey, peerPublicKey, payload string) (string, error) {
	shared, err := nip04.ComputeSharedSecret(peerPublicKey, secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: compute shared secret: %w", domain.ErrDecryptionFailed, err)
	}
	defer wipe(shared)

	pt, err := openCBC(shared, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDecryptionFailed, err)
	}
	if !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", domain.ErrDecryptionFailed)
	}
	return string(pt), nil
}

func openCBC(key []byte, payload string) ([]byte, error) {
	ctB64, ivB64, ok := strings.Cut(payload, "?iv=")
	if !ok {
		return nil, fmt.Errorf("missing iv")
	}
	ct, err := base64.StdEncoding.DecodeString(ctB64)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ct))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)
	return unpad(pt)
}

// unpad strips PKCS#7 padding, requiring every padding byte to match.
func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("bad padding")
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, fmt.Errorf("bad padding")
	}
	return b[:len(b)-n], nil
}

// wipe zeroes b. This is best-effort and aims to keep the write from being
// elided.
//
//go:noinline
func wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}
