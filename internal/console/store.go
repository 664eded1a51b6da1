package console

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const maxDescriptionLen = 500

var (
	ErrEmptyDescription   = errors.New("todo description cannot be empty")
	ErrDescriptionTooLong = fmt.Errorf("todo description cannot exceed %d characters", maxDescriptionLen)
	ErrItemNotFound       = errors.New("todo not found")
	ErrAlreadyCompleted   = errors.New("todo already completed")
)

// Item es una tarea de la consola; los ids son secuenciales desde 1.
type Item struct {
	ID          int
	Description string
	Completed   bool
	CreatedAt   time.Time
}

func (i Item) String() string {
	status := " "
	if i.Completed {
		status = "x"
	}
	return fmt.Sprintf("[%d] [%s] %s", i.ID, status, i.Description)
}

// Store guarda las tareas en memoria. Es seguro para uso concurrente.
type Store struct {
	mu     sync.Mutex
	items  []Item
	nextID int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		nextID: 1,
		now:    time.Now,
	}
}

func (s *Store) Add(description string) (Item, error) {
	description, err := normalizeDescription(description)
	if err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	item := Item{
		ID:          s.nextID,
		Description: description,
		CreatedAt:   s.now(),
	}
	s.nextID++
	s.items = append(s.items, item)
	return item, nil
}

// List devuelve una copia en orden de creacion.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	return s.items[idx], nil
}

func (s *Store) MarkComplete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	if s.items[idx].Completed {
		return ErrAlreadyCompleted
	}
	s.items[idx].Completed = true
	return nil
}

func (s *Store) UpdateDescription(id int, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	description, err := normalizeDescription(description)
	if err != nil {
		return err
	}
	s.items[idx].Description = description
	return nil
}

func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

func (s *Store) indexOf(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrEmptyDescription
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	return description, nil
}
