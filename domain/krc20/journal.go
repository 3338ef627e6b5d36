package krc20

import (
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/infrastructure/db/ldb"
	"github.com/pkg/errors"
)

// JournalEntry records a commit transaction until its reveal is confirmed
type JournalEntry struct {
	CommitTransactionID string    `json:"commitTransactionId"`
	OutputIndex         uint32    `json:"outputIndex"`
	Amount              uint64    `json:"amount"`
	RedeemScript        string    `json:"redeemScript"`
	NetworkID           string    `json:"networkId"`
	CreatedAt           time.Time `json:"createdAt"`

	// RevealTransactionID is set once a reveal was built. Rebuilding the
	// reveal yields the same transaction ID.
	RevealTransactionID string `json:"revealTransactionId,omitempty"`
}

func (entry *JournalEntry) redeemScript() ([]byte, error) {
	redeemScript, err := hex.DecodeString(entry.RedeemScript)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed redeem script of commit %s", entry.CommitTransactionID)
	}
	return redeemScript, nil
}

// Journal stores the commits whose reveal wasn't confirmed yet
type Journal interface {
	Put(entry *JournalEntry) error
	Get(commitTransactionID *externalapi.DomainTransactionID) (*JournalEntry, error)
	Delete(commitTransactionID *externalapi.DomainTransactionID) error
	Entries() ([]*JournalEntry, error)
}

type memoryJournal struct {
	mutex   sync.Mutex
	entries map[string]JournalEntry
}

// NewMemoryJournal returns a Journal that forgets its entries when the
// process exits
func NewMemoryJournal() Journal {
	return &memoryJournal{entries: make(map[string]JournalEntry)}
}

func (journal *memoryJournal) Put(entry *JournalEntry) error {
	journal.mutex.Lock()
	defer journal.mutex.Unlock()

	journal.entries[entry.CommitTransactionID] = *entry
	return nil
}

func (journal *memoryJournal) Get(commitTransactionID *externalapi.DomainTransactionID) (*JournalEntry, error) {
	journal.mutex.Lock()
	defer journal.mutex.Unlock()

	entry, ok := journal.entries[commitTransactionID.String()]
	if !ok {
		return nil, errors.Wrapf(ErrCommitNotFound, "commit %s", commitTransactionID)
	}
	return &entry, nil
}

func (journal *memoryJournal) Delete(commitTransactionID *externalapi.DomainTransactionID) error {
	journal.mutex.Lock()
	defer journal.mutex.Unlock()

	delete(journal.entries, commitTransactionID.String())
	return nil
}

func (journal *memoryJournal) Entries() ([]*JournalEntry, error) {
	journal.mutex.Lock()
	defer journal.mutex.Unlock()

	entries := make([]*JournalEntry, 0, len(journal.entries))
	for _, entry := range journal.entries {
		entry := entry
		entries = append(entries, &entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CommitTransactionID < entries[j].CommitTransactionID
	})
	return entries, nil
}

// ConfirmReveal removes the entry of commitTransactionID from journal. The
// entry must carry the ID of a built reveal.
func ConfirmReveal(journal Journal, commitTransactionID *externalapi.DomainTransactionID) error {
	entry, err := journal.Get(commitTransactionID)
	if err != nil {
		return err
	}
	if entry.RevealTransactionID == "" {
		return errors.Wrapf(ErrRevealNotBuilt, "commit %s", commitTransactionID)
	}
	err = journal.Delete(commitTransactionID)
	if err != nil {
		return err
	}
	log.Infof("Confirmed reveal %s of commit %s", entry.RevealTransactionID, commitTransactionID)
	return nil
}

var journalKeyPrefix = []byte("krc20-commit/")

func journalKey(commitTransactionID string) []byte {
	key := make([]byte, 0, len(journalKeyPrefix)+len(commitTransactionID))
	key = append(key, journalKeyPrefix...)
	return append(key, commitTransactionID...)
}

type levelDBJournal struct {
	db *ldb.LevelDB
}

// NewLevelDBJournal returns a Journal persisted in db
func NewLevelDBJournal(db *ldb.LevelDB) Journal {
	return &levelDBJournal{db: db}
}

func (journal *levelDBJournal) Put(entry *JournalEntry) error {
	serialized, err := json.Marshal(entry)
	if err != nil {
		return errors.WithStack(err)
	}
	return journal.db.Put(journalKey(entry.CommitTransactionID), serialized)
}

func (journal *levelDBJournal) Get(commitTransactionID *externalapi.DomainTransactionID) (*JournalEntry, error) {
	serialized, err := journal.db.Get(journalKey(commitTransactionID.String()))
	if err != nil {
		if errors.Is(err, ldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrCommitNotFound, "commit %s", commitTransactionID)
		}
		return nil, err
	}
	return deserializeJournalEntry(serialized)
}

func (journal *levelDBJournal) Delete(commitTransactionID *externalapi.DomainTransactionID) error {
	return journal.db.Delete(journalKey(commitTransactionID.String()))
}

func (journal *levelDBJournal) Entries() ([]*JournalEntry, error) {
	var entries []*JournalEntry
	err := journal.db.ForEach(journalKeyPrefix, func(key, value []byte) error {
		entry, err := deserializeJournalEntry(value)
		if err != nil {
			return errors.Wrapf(err, "journal key %s", key)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func deserializeJournalEntry(serialized []byte) (*JournalEntry, error) {
	entry := &JournalEntry{}
	err := json.Unmarshal(serialized, entry)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed journal entry")
	}
	return entry, nil
}
