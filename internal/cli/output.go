package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Flight:
		o.printFlight(v)
	case Seat:
		o.printSeat(v)
	case Summary:
		o.printSummary(v)
	case Validation:
		o.printValidation(v)
	case []Validation:
		o.printValidations(v)
	case PhaseResult:
		o.printPhaseResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Claim response type
type Claim struct {
	Value       *string   `json:"value"`
	Locked      bool      `json:"locked"`
	LockVersion int       `json:"lock_version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Seat response type
type Seat struct {
	ID          string `json:"id"`
	PlayerID    string `json:"player_id,omitempty"`
	GuestName   string `json:"guest_name,omitempty"`
	DisplayName string `json:"display_name"`
	OrderIndex  int    `json:"order_index"`
	IsGuest     bool   `json:"is_guest"`
	Claim       Claim  `json:"claim"`
}

// Flight response type
type Flight struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	CreatorID  string `json:"creator_id"`
	Phase      string `json:"phase"`
	Seats      []Seat `json:"seats"`
}

// Validation response type
type Validation struct {
	ValidatorSeatID   string    `json:"validator_seat_id"`
	TargetSeatID      string    `json:"target_seat_id"`
	Status            string    `json:"status"`
	Note              string    `json:"note,omitempty"`
	TargetLockVersion int       `json:"target_lock_version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Summary response type
type Summary struct {
	TargetSeatID  string `json:"target_seat_id"`
	ApprovedCount int    `json:"approved_count"`
	TotalExpected int    `json:"total_expected"`
	Ratified      bool   `json:"ratified"`
}

// PhaseResult response type
type PhaseResult struct {
	Phase string `json:"phase"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func claimDisplay(c Claim) string {
	value := "-"
	if c.Value != nil {
		value = *c.Value
	}
	if c.Locked {
		return fmt.Sprintf("%s [locked v%d]", value, c.LockVersion)
	}
	return value
}

func (o *Output) printFlight(f Flight) {
	fmt.Printf("Flight: %s\n", f.ID)
	if f.Name != "" {
		fmt.Printf("Name: %s\n", f.Name)
	}
	if f.CourseName != "" {
		fmt.Printf("Course: %s\n", f.CourseName)
	}
	fmt.Printf("Phase: %s\n", f.Phase)
	fmt.Printf("Seats (%d):\n", len(f.Seats))
	for _, s := range f.Seats {
		guestStr := ""
		if s.IsGuest {
			guestStr = " [guest]"
		}
		fmt.Printf("  %d. %s (%s)%s - handicap %s\n",
			s.OrderIndex+1, s.DisplayName, s.ID, guestStr, claimDisplay(s.Claim))
	}
}

func (o *Output) printSeat(s Seat) {
	fmt.Printf("Seat: %s\n", s.ID)
	fmt.Printf("Player: %s\n", s.DisplayName)
	fmt.Printf("Handicap: %s\n", claimDisplay(s.Claim))
}

func (o *Output) printSummary(s Summary) {
	ratifiedStr := "no"
	if s.Ratified {
		ratifiedStr = "yes"
	}
	fmt.Printf("Seat: %s\n", s.TargetSeatID)
	fmt.Printf("Approvals: %d/%d\n", s.ApprovedCount, s.TotalExpected)
	fmt.Printf("Ratified: %s\n", ratifiedStr)
}

func (o *Output) printValidation(v Validation) {
	fmt.Printf("%s -> %s: %s (v%d)\n", v.ValidatorSeatID, v.TargetSeatID, v.Status, v.TargetLockVersion)
	if v.Note != "" {
		fmt.Printf("Note: %s\n", v.Note)
	}
}

func (o *Output) printValidations(vs []Validation) {
	if len(vs) == 0 {
		fmt.Println("No validations")
		return
	}
	for _, v := range vs {
		o.printValidation(v)
	}
}

func (o *Output) printPhaseResult(p PhaseResult) {
	fmt.Printf("Phase: %s\n", p.Phase)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
