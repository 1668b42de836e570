package dispatcher

import "errors"

// ErrUnregisteredWatch is returned by WatchOff when the path was never
// watched or the listener is not registered on it.
var ErrUnregisteredWatch = errors.New("unregistered state watch")
