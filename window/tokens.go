package window

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/storechat/ragengine/common/logger"
)

// TokenEstimator estimates the token footprint of a piece of text. Estimates
// must be deterministic and monotone in input length; exactness is not
// required.
type TokenEstimator interface {
	Estimate(text string) int
}

// CharEstimator approximates tokens as a fixed chars-per-token ratio,
// rounding up.
type CharEstimator struct {
	CharsPerToken int
}

func (e CharEstimator) Estimate(text string) int {
	cpt := e.CharsPerToken
	if cpt <= 0 {
		cpt = 4
	}
	if len(text) == 0 {
		return 0
	}
	return (len(text) + cpt - 1) / cpt
}

type tiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) Estimate(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

// NewEstimator returns a tiktoken-backed estimator for the named encoding,
// falling back to the chars-per-token approximation when the encoding cannot
// be loaded (e.g. offline environments).
func NewEstimator(encoding string, charsPerToken int) TokenEstimator {
	if encoding != "" {
		enc, err := tiktoken.GetEncoding(encoding)
		if err == nil {
			return &tiktokenEstimator{enc: enc}
		}
		logger.Warnf("window: tiktoken encoding %q unavailable, using char approximation: %v", encoding, err)
	}
	return CharEstimator{CharsPerToken: charsPerToken}
}
