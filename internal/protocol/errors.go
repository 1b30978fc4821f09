package protocol

import "fmt"

// ErrorCode is the single payload byte of an Error frame.
type ErrorCode byte

const (
	CodeOk ErrorCode = iota
	CodeGameNotFound
	CodePlayerNotFound
	CodeNotYourTurn
	CodeInvalidAction
	CodeGameFull
	CodeGameAlreadyStarted
	CodeCardNotFound
	CodeNotEnoughCards
	CodePlayerNotAlive
	CodeSessionNotFound
	CodeUnauthorized
)

var codeNames = [...]string{
	"Ok",
	"GameNotFound",
	"PlayerNotFound",
	"NotYourTurn",
	"InvalidAction",
	"GameFull",
	"GameAlreadyStarted",
	"CardNotFound",
	"NotEnoughCards",
	"PlayerNotAlive",
	"SessionNotFound",
	"Unauthorized",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", byte(c))
}

// ErrorFrame encodes an Error frame carrying code.
func ErrorFrame(code ErrorCode) []byte {
	return MustEncode(CmdError, []byte{byte(code)})
}

// MessageFrame encodes a human readable Message frame.
func MessageFrame(text string) []byte {
	return MustEncode(CmdMessage, []byte(text))
}

// TextFrame encodes cmd with a UTF-8 text payload.
func TextFrame(cmd Command, text string) []byte {
	return MustEncode(cmd, []byte(text))
}
