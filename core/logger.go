package core

// Logger is any service that can report application events.
// expected args: error, map[string]interface{}, Person or any value worth printing
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person is the authenticated caller an event is reported for.
type Person struct {
	ID   string
	Name string
}
