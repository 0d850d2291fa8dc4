// Package commitment derives keyed vote commitments and public receipt tokens.
//
// A commitment binds (election, voter, option, nonce) under a server-held
// secret; without the secret it is computationally infeasible to produce a
// commitment that Verify accepts. The receipt token is derived from the
// election, a timestamp and a random salt only, so holding a token reveals
// nothing about who voted or for what.
package commitment

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// scheme tags the commitment wire format: v1:<hex body>:<hex tag>.
const scheme = "v1"

const minSecretLen = 16

var ErrWeakSecret = errors.New("commitment secret too short")

// Engine is a pure keyed-commitment engine. It holds the process-wide secret
// loaded once at startup and has no other state.
type Engine struct {
	secret []byte
}

// NewEngine builds an Engine from the configured secret. Secrets shorter than
// 16 bytes are rejected so a missing env var cannot silently degrade the scheme.
func NewEngine(secret string) (*Engine, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	return &Engine{secret: []byte(secret)}, nil
}

// Commit derives the commitment and receipt token for a single vote.
//
// body = HMAC(secret, election|voter|option|nonce) binds the full tuple.
// token = SHA256(election|now|salt). No voter or option material, so the
// token cannot be correlated back to the choice.
// tag = HMAC(secret, token|body) ties the public token to the hidden body;
// Verify recomputes only the tag, which needs no knowledge of the tuple.
func (e *Engine) Commit(voterID, optionID, electionID, nonce string) (commitment, token string, err error) {
	if voterID == "" || optionID == "" || electionID == "" || nonce == "" {
		return "", "", errors.New("commit: empty input")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("commit: salt: %w", err)
	}

	th := sha256.New()
	th.Write([]byte(electionID))
	th.Write([]byte(fmt.Sprintf("|%d|", time.Now().UnixNano())))
	th.Write(salt)
	token = hex.EncodeToString(th.Sum(nil))

	body := e.mac([]byte(electionID + "|" + voterID + "|" + optionID + "|" + nonce))
	tag := e.mac(append([]byte(token+"|"), body...))

	commitment = scheme + ":" + hex.EncodeToString(body) + ":" + hex.EncodeToString(tag)
	return commitment, token, nil
}

// Verify reports whether commitment was produced by Commit under this
// engine's secret for the given token. Any malformed input, unknown scheme
// tag, or mismatched tag yields false. The check fails closed.
func (e *Engine) Verify(token, commitment string) bool {
	if token == "" || commitment == "" {
		return false
	}

	parts := strings.Split(commitment, ":")
	if len(parts) != 3 || parts[0] != scheme {
		return false
	}

	body, err := hex.DecodeString(parts[1])
	if err != nil || len(body) != sha256.Size {
		return false
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != sha256.Size {
		return false
	}

	want := e.mac(append([]byte(token+"|"), body...))
	return hmac.Equal(tag, want)
}

func (e *Engine) mac(data []byte) []byte {
	h := hmac.New(sha256.New, e.secret)
	h.Write(data)
	return h.Sum(nil)
}
