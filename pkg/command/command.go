// Package command implements the text console used to drive the pool screen
// from a host over USB serial. One command per line:
//
//	ping
//	draw <poolIn> <deltaT> <boiler> <hxIn> <hxOut>
//	clear
//	log <text...>
//	pins <R1> <G1> <B1> <R2> <G2> <B2> <A> <B> <C> <D> <E> <LAT> <OE> <CLK>
//	profile test|breakout
//
// Arguments are split shell-style. The text of log is taken verbatim from
// the rest of the line, so quotes and '#' reach the screen unchanged.
// Pin changes are stored and take effect on the next boot.
package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/config"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/panel"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/screen"
)

// Status codes
const (
	StatusOK Status = iota
	StatusError
	StatusInvalidCmd
	StatusInvalidData
)

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("wrong number of arguments")
	ErrNoStorage      = errors.New("storage unavailable")
)

// Status is the outcome class of a command.
type Status uint8

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusInvalidCmd:
		return "invalid-cmd"
	case StatusInvalidData:
		return "invalid-data"
	default:
		return "status" + strconv.Itoa(int(s))
	}
}

// Response is written back to the host, one line per command.
type Response struct {
	Status  Status
	Message string
}

func (r Response) String() string {
	if r.Status == StatusOK {
		if r.Message == "" {
			return "ok"
		}
		return "ok " + r.Message
	}
	return "err " + r.Status.String() + ": " + r.Message
}

// Renderer is the part of the screen the console drives.
type Renderer interface {
	Draw(r screen.Readings) error
	Clear() error
	Log(text string) error
}

// PanelStore persists the pin override.
type PanelStore interface {
	SavePanel(cfg *config.PanelConfig) error
}

// Handler processes console commands.
type Handler struct {
	screen Renderer
	store  PanelStore
}

// NewHandler creates a new command handler. store may be nil when flash
// could not be mounted; pin commands then fail.
func NewHandler(r Renderer, store PanelStore) *Handler {
	return &Handler{
		screen: r,
		store:  store,
	}
}

// Handle parses and runs one line.
func (h *Handler) Handle(line string) Response {
	// shlex would drop everything after '#'
	if name, rest := cutCommand(line); strings.EqualFold(name, "log") {
		return result(h.screen.Log(rest))
	}

	args, err := shlex.Split(line)
	if err != nil {
		return fail(StatusInvalidData, err)
	}
	if len(args) == 0 {
		return fail(StatusInvalidCmd, ErrEmpty)
	}

	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "ping":
		return Response{Status: StatusOK, Message: "pong"}
	case "draw":
		return h.handleDraw(args)
	case "clear":
		return result(h.screen.Clear())
	case "pins":
		return h.handlePins(args)
	case "profile":
		return h.handleProfile(args)
	default:
		return fail(StatusInvalidCmd, ErrUnknownCommand)
	}
}

// cutCommand splits line into its first word and the remainder with the
// separating blanks removed.
func cutCommand(line string) (name, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i:], " \t")
}

// handleDraw parses five temperatures in screen order.
func (h *Handler) handleDraw(args []string) Response {
	if len(args) != 5 {
		return fail(StatusInvalidData, ErrArgCount)
	}

	var values [5]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fail(StatusInvalidData, err)
		}
		values[i] = v
	}

	return result(h.screen.Draw(screen.Readings{
		PoolIn:           values[0],
		PoolInDeltaT:     values[1],
		Boiler:           values[2],
		HeatExchangerIn:  values[3],
		HeatExchangerOut: values[4],
	}))
}

func (h *Handler) handlePins(args []string) Response {
	pins, err := config.ParsePins(args)
	if err != nil {
		return fail(StatusInvalidData, err)
	}

	cfg := config.Custom(pins)
	return h.save(&cfg)
}

func (h *Handler) handleProfile(args []string) Response {
	if len(args) != 1 {
		return fail(StatusInvalidData, ErrArgCount)
	}
	p, ok := panel.ParseProfile(strings.ToLower(args[0]))
	if !ok || p == panel.ProfileCustom {
		return fail(StatusInvalidData, errors.New("unknown profile "+args[0]))
	}

	cfg := config.Default()
	cfg.Profile = p
	return h.save(&cfg)
}

func (h *Handler) save(cfg *config.PanelConfig) Response {
	if h.store == nil {
		return fail(StatusError, ErrNoStorage)
	}
	if err := h.store.SavePanel(cfg); err != nil {
		return fail(StatusError, err)
	}
	return Response{Status: StatusOK, Message: "saved, reboot to apply"}
}

func result(err error) Response {
	if err != nil {
		return fail(StatusError, err)
	}
	return Response{Status: StatusOK}
}

func fail(status Status, err error) Response {
	return Response{Status: status, Message: err.Error()}
}
