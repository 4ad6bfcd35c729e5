package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure ReplyStore implements the interface.
var _ driven.ReplyStore = (*ReplyStore)(nil)

// ReplyStore loads offline reply templates from user-editable files on
// disk. Replies are loaded from a configurable directory with fallback
// to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first
// accessed, not in the constructor. This makes testing easier and avoids
// unexpected I/O.
type ReplyStore struct {
	mu       sync.RWMutex
	replyDir string
	cache    map[string]string
	initOnce sync.Once
	initErr  error
}

// defaultReplies contains embedded default reply templates.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Reply content is intentionally long and should not be wrapped.
var defaultReplies = map[string]string{
	driven.ReplyGreeting: `Hello! I'm Zoe, your study-abroad assistant. I'm offline right now, but I can still share general guidance on visas, universities, and costs. What would you like to know?`,

	driven.ReplyVisas: `For most study destinations you'll need a valid passport, an offer letter from your institution, proof of funds, and a completed visa application. Requirements vary by country, so check the official immigration site for your destination. Once I'm back online I can give you a checklist tailored to your course and nationality.`,

	driven.ReplyUniversities: `Choosing a university comes down to course content, entry requirements, location, and budget. Shortlist three to five institutions, check their application deadlines, and prepare your transcripts early. When I'm back online I can compare specific universities and courses for you.`,

	driven.ReplyCosts: `Plan for tuition fees, accommodation, insurance, and day-to-day living costs. Many institutions offer scholarships and early-payment discounts, and some countries allow part-time work on a student visa. When I'm back online I can estimate costs for a specific destination.`,

	driven.ReplyDefault: `I can't reach the StudyBridge knowledge base right now, so here's some general guidance: start with your destination country's official student visa pages, keep digital copies of your documents, and note every application deadline. Ask me again shortly and I'll have a proper answer for you.`,
}

// NewReplyStore creates a new file-based reply store.
// If replyDir is empty, defaults to ~/.zoe/replies/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewReplyStore(replyDir string) (*ReplyStore, error) {
	if replyDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		replyDir = filepath.Join(home, ".zoe", "replies")
	}

	return &ReplyStore{
		replyDir: replyDir,
		cache:    make(map[string]string),
	}, nil
}

// Load returns the reply template for the given name.
// On first call, initialises the reply directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *ReplyStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if reply, ok := defaultReplies[name]; ok {
			return reply, nil
		}
		return "", fmt.Errorf("reply store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if reply, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return reply, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	reply, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultReply, ok := defaultReplies[name]; ok {
			return defaultReply, nil
		}
		return "", fmt.Errorf("load reply %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = reply
	} else {
		// Another goroutine loaded it first, use their value
		reply = s.cache[name]
	}
	s.mu.Unlock()

	return reply, nil
}

// Reload clears the reply cache, forcing fresh loads from disk.
func (s *ReplyStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the reply directory path.
func (s *ReplyStore) Dir() string {
	return s.replyDir
}

// initialise creates the reply directory and default files.
// Called once via sync.Once on first Load().
func (s *ReplyStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.replyDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create reply directory: %w", err)
		return
	}

	// Create default reply files (only if they don't exist)
	for name, content := range defaultReplies {
		path := filepath.Join(s.replyDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default reply %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a reply from disk.
func (s *ReplyStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.replyDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the replies directory.
func (s *ReplyStore) createReadme() error {
	path := filepath.Join(s.replyDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Zoe Offline Replies

This directory contains the canned replies Zoe falls back to when the
assistant backend is unreachable.

## Files

- ` + "`greeting.txt`" + ` - Answers plain greetings
- ` + "`visas.txt`" + ` - Visa and document questions
- ` + "`universities.txt`" + ` - Institution and course questions
- ` + "`costs.txt`" + ` - Fees, budgets, and scholarships
- ` + "`default.txt`" + ` - Everything else

## Customisation

Edit any file to customise the offline guidance, for example to add
your agency's contact details. Changes take effect on the next command
or after restarting the chat.
`
	return os.WriteFile(path, []byte(content), 0600)
}
