package lcd

import "sync"

// Memory is a Display that keeps the character grid in RAM. FailWith makes
// every following call return that error until cleared.
type Memory struct {
	mu        sync.Mutex
	rows      [Height][Width]byte
	col, row  uint8
	on, light bool
	fail      error
	calls     int
}

var _ Display = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.blank()
	return m
}

func (m *Memory) blank() {
	for r := range m.rows {
		for c := range m.rows[r] {
			m.rows[r][c] = ' '
		}
	}
	m.col, m.row = 0, 0
}

func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

func (m *Memory) enter() error {
	m.calls++
	return m.fail
}

func (m *Memory) SetDisplay(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	m.on = on
	return nil
}

func (m *Memory) SetBacklight(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	m.light = on
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	m.blank()
	return nil
}

func (m *Memory) SetCursor(col, row uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	m.col, m.row = col, row
	return nil
}

// Print writes s at the cursor. Characters past the row end are dropped.
func (m *Memory) Print(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if int(m.row) < Height && int(m.col) < Width {
			m.rows[m.row][m.col] = s[i]
		}
		m.col++
	}
	return nil
}

// Row returns row r as shown, including trailing blanks.
func (m *Memory) Row(r int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.rows[r][:])
}

// Lit reports whether the display and backlight are both on.
func (m *Memory) Lit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on && m.light
}

// Calls returns the number of Display calls so far.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
