// Package session ties the roster, categories and streak store together into
// the state the overlay displays.
package session

import (
	"errors"
	"time"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/streak"
)

// ErrNoSelection is returned by Win, Loss and Reset when no character is selected.
var ErrNoSelection = errors.New("no character selected")

// Roster supplies the ordered characters and can rebuild them.
type Roster interface {
	Characters() []model.Character
	Rescan() error
}

// Catalog supplies the ordered category names for a character.
type Catalog interface {
	For(characterKey string) []string
}

// Observer is notified after every applied transition.
type Observer func(model.Event)

// Display is everything the view renders.
type Display struct {
	HasCharacter   bool
	CharacterIndex int
	CharacterName  string
	CharacterKey   string
	ImagePath      string
	CharacterNames []string
	CategoryIndex  int
	CategoryLabel  string
	CategoryNames  []string
	Current        int
	Best           int
}

// Controller holds the current selection. Character and category navigation
// wraps around at both ends.
type Controller struct {
	roster    Roster
	catalog   Catalog
	store     *streak.Store
	charIdx   int
	catIdx    int
	observers []Observer
	now       func() time.Time
}

// New returns a controller with the first character and category selected.
func New(r Roster, c Catalog, st *streak.Store) *Controller {
	ctl := &Controller{
		roster:  r,
		catalog: c,
		store:   st,
		now:     time.Now,
	}
	if len(r.Characters()) == 0 {
		ctl.charIdx = -1
	}
	return ctl
}

// Subscribe registers fn to receive every event.
func (c *Controller) Subscribe(fn Observer) {
	c.observers = append(c.observers, fn)
}

// CharacterIndex returns the selected character index, or -1 when none.
func (c *Controller) CharacterIndex() int {
	return c.charIdx
}

// CategoryIndex returns the selected category index.
func (c *Controller) CategoryIndex() int {
	return c.catIdx
}

// SelectCharacter selects by roster index and resets the category selection.
func (c *Controller) SelectCharacter(i int) bool {
	chars := c.roster.Characters()
	if i < 0 || i >= len(chars) {
		return false
	}
	c.charIdx = i
	c.catIdx = 0
	return true
}

// SelectCharacterByName selects the character whose display name matches,
// falling back to a key match.
func (c *Controller) SelectCharacterByName(name string) bool {
	chars := c.roster.Characters()
	for i, ch := range chars {
		if ch.Name == name {
			return c.SelectCharacter(i)
		}
	}
	for i, ch := range chars {
		if ch.Key == name {
			return c.SelectCharacter(i)
		}
	}
	return false
}

// NextCharacter moves to the next character, wrapping to the first.
func (c *Controller) NextCharacter() {
	c.stepCharacter(1)
}

// PreviousCharacter moves to the previous character, wrapping to the last.
func (c *Controller) PreviousCharacter() {
	c.stepCharacter(-1)
}

func (c *Controller) stepCharacter(delta int) {
	n := len(c.roster.Characters())
	if n == 0 {
		c.charIdx = -1
		return
	}
	if c.charIdx < 0 {
		c.SelectCharacter(0)
		return
	}
	c.SelectCharacter(wrap(c.charIdx+delta, n))
}

// SelectCategory selects by index within the current character's categories.
func (c *Controller) SelectCategory(i int) bool {
	names := c.categories()
	if i < 0 || i >= len(names) {
		return false
	}
	c.catIdx = i
	return true
}

// SelectCategoryByName selects a category of the current character by name.
func (c *Controller) SelectCategoryByName(name string) bool {
	for i, n := range c.categories() {
		if n == name {
			c.catIdx = i
			return true
		}
	}
	return false
}

// NextCategory moves to the next category, wrapping to the first.
func (c *Controller) NextCategory() {
	if n := len(c.categories()); n > 0 {
		c.catIdx = wrap(c.catIdx+1, n)
	}
}

// PreviousCategory moves to the previous category, wrapping to the last.
func (c *Controller) PreviousCategory() {
	if n := len(c.categories()); n > 0 {
		c.catIdx = wrap(c.catIdx-1, n)
	}
}

// Win records a win for the current selection.
func (c *Controller) Win() (model.Event, error) {
	return c.apply(model.OutcomeWin, c.store.RecordWin)
}

// Loss records a loss for the current selection.
func (c *Controller) Loss() (model.Event, error) {
	return c.apply(model.OutcomeLoss, c.store.RecordLoss)
}

// Reset clears the streak and personal best for the current selection.
func (c *Controller) Reset() (model.Event, error) {
	return c.apply(model.OutcomeReset, c.store.Reset)
}

func (c *Controller) apply(outcome model.Outcome, fn func(model.Key) model.Record) (model.Event, error) {
	key, ok := c.key()
	if !ok {
		return model.Event{}, ErrNoSelection
	}
	before := c.store.Get(key)
	rec := fn(key)
	ev := model.Event{At: c.now(), Key: key, Outcome: outcome, Before: before, Record: rec}
	for _, obs := range c.observers {
		obs(ev)
	}
	return ev, nil
}

// Rescan rebuilds the roster. The selected character is kept when it still
// exists; otherwise the index is clamped to the new roster with the first
// category selected, or cleared when the roster is empty.
func (c *Controller) Rescan() error {
	prevKey := ""
	if ch, ok := c.character(); ok {
		prevKey = ch.Key
	}
	prevCat := c.categoryName()
	err := c.roster.Rescan()

	chars := c.roster.Characters()
	switch {
	case len(chars) == 0:
		c.charIdx = -1
		c.catIdx = 0
		return err
	case prevKey != "":
		for i, ch := range chars {
			if ch.Key == prevKey {
				c.charIdx = i
				if !c.SelectCategoryByName(prevCat) {
					c.catIdx = clamp(c.catIdx, len(c.categories()))
				}
				return err
			}
		}
	}
	c.charIdx = clamp(c.charIdx, len(chars))
	c.catIdx = 0
	return err
}

// Display returns the current view state, read live from the store.
func (c *Controller) Display() Display {
	chars := c.roster.Characters()
	d := Display{
		CharacterIndex: -1,
		CharacterNames: make([]string, 0, len(chars)),
	}
	for _, ch := range chars {
		d.CharacterNames = append(d.CharacterNames, ch.Name)
	}
	ch, ok := c.character()
	if !ok {
		return d
	}
	d.HasCharacter = true
	d.CharacterIndex = c.charIdx
	d.CharacterName = ch.Name
	d.CharacterKey = ch.Key
	d.ImagePath = ch.ImagePath
	d.CategoryNames = append([]string(nil), c.categories()...)
	d.CategoryIndex = c.catIdx
	d.CategoryLabel = c.categoryName()
	if key, ok := c.key(); ok {
		rec := c.store.Get(key)
		d.Current = rec.Current
		d.Best = rec.Best
	}
	return d
}

// Records returns every category record of the selected character in category order.
func (c *Controller) Records() []streak.Entry {
	ch, ok := c.character()
	if !ok {
		return nil
	}
	names := c.categories()
	out := make([]streak.Entry, 0, len(names))
	for _, name := range names {
		key := model.Key{Character: ch.Key, Category: name}
		out = append(out, streak.Entry{Key: key, Record: c.store.Get(key)})
	}
	return out
}

func (c *Controller) character() (model.Character, bool) {
	chars := c.roster.Characters()
	if c.charIdx < 0 || c.charIdx >= len(chars) {
		return model.Character{}, false
	}
	return chars[c.charIdx], true
}

func (c *Controller) categories() []string {
	ch, ok := c.character()
	if !ok {
		return nil
	}
	return c.catalog.For(ch.Key)
}

func (c *Controller) categoryName() string {
	names := c.categories()
	if c.catIdx < 0 || c.catIdx >= len(names) {
		return ""
	}
	return names[c.catIdx]
}

func (c *Controller) key() (model.Key, bool) {
	ch, ok := c.character()
	if !ok {
		return model.Key{}, false
	}
	cat := c.categoryName()
	if cat == "" {
		return model.Key{}, false
	}
	return model.Key{Character: ch.Key, Category: cat}, true
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
