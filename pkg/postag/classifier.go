package postag

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"scriptscore/pkg/screenplay"
)

// Classifier flags tokens the remote tagger marks as VERB. Answers are cached
// per token. When the tagger fails the fallback classifier decides, and the
// failure is not cached so a recovered service is used again.
type Classifier struct {
	client   *Client
	fallback screenplay.TokenClassifier
	timeout  time.Duration

	mu    sync.RWMutex
	cache map[string]bool
}

// NewClassifier wraps client. A nil fallback uses the default lexicon.
func NewClassifier(client *Client, fallback screenplay.TokenClassifier, timeout time.Duration) *Classifier {
	if fallback == nil {
		fallback = screenplay.DefaultLexicon()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Classifier{
		client:   client,
		fallback: fallback,
		timeout:  timeout,
		cache:    make(map[string]bool),
	}
}

// IsVerbLike implements screenplay.TokenClassifier.
func (c *Classifier) IsVerbLike(token string) bool {
	key := strings.ToUpper(token)

	c.mu.RLock()
	verb, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return verb
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	tokens, err := c.client.Tag(ctx, key)
	if err != nil {
		log.Debugf("Tagger unavailable for %q, using fallback: %v", key, err)
		return c.fallback.IsVerbLike(token)
	}

	verb = false
	for _, t := range tokens {
		if t.POS == "VERB" {
			verb = true
			break
		}
	}

	c.mu.Lock()
	c.cache[key] = verb
	c.mu.Unlock()
	return verb
}
