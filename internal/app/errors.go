package app

type aerr string

func (e aerr) Error() string { return string(e) }

const (
	ErrGamePending = aerr("a game is pending a result")
	ErrNoGame      = aerr("no game is pending")
)
