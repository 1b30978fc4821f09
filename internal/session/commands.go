package session

type Msg interface{ isSessionMsg() }

// Request carries one client command. Done receives the rejection, or nil
// when the command was applied.
type Request struct {
	Conn Conn
	Cmd  Command
	Done chan error
}

func (Request) isSessionMsg() {}

type Disconnect struct {
	ConnID string
	Done   chan struct{}
}

func (Disconnect) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Inspect runs Fn on the session goroutine.
type Inspect struct {
	Fn   func(*Session)
	Done chan struct{}
}

func (Inspect) isSessionMsg() {}

type timerKind int

const (
	timerNope timerKind = iota + 1
	timerPending
)

type timerFired struct {
	kind timerKind
	gen  uint64
}

func (timerFired) isSessionMsg() {}

// Command is a parsed client command addressed to this session.
type Command interface{ isCommand() }

type Join struct {
	Name string
	// Creator is set for the player who opened the session; no
	// PlayerJoined is broadcast for them.
	Creator bool
}

type Leave struct{ PlayerID string }

type Start struct{}

type PlayCard struct {
	PlayerID string
	Index    int
	Target   string
}

type UseCombo struct {
	PlayerID string
	Size     int
	Indices  []int
	Target   string
}

type Draw struct{ PlayerID string }

type EndTurn struct{ PlayerID string }

type Defuse struct {
	PlayerID string
	Position int
}

// GiveFavor answers a Favor: the targeted player hands over a card.
type GiveFavor struct {
	PlayerID string
	Index    int
}

type Steal struct {
	PlayerID string
	Index    int
}

type TakeDiscard struct {
	PlayerID string
	Index    int
}

type Nope struct {
	PlayerID string
	ActionID string
}

type GetState struct{}

type GetHand struct{ PlayerID string }

type GetPlayers struct{}

func (Join) isCommand()        {}
func (Leave) isCommand()       {}
func (Start) isCommand()       {}
func (PlayCard) isCommand()    {}
func (UseCombo) isCommand()    {}
func (Draw) isCommand()        {}
func (EndTurn) isCommand()     {}
func (Defuse) isCommand()      {}
func (GiveFavor) isCommand()   {}
func (Steal) isCommand()       {}
func (TakeDiscard) isCommand() {}
func (Nope) isCommand()        {}
func (GetState) isCommand()    {}
func (GetHand) isCommand()     {}
func (GetPlayers) isCommand()  {}
