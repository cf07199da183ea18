package league

import "fmt"

// League is a private group of users competing on a shared board. CRUD and
// membership management live outside this core; only membership reads are
// consumed here.
type League struct {
	ID           string
	Name         string
	Competitions []string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
