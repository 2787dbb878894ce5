package il2log

import "github.com/il2log/il2log-go/pkg/il2log/event"

// Event is an alias for event.Event.
type Event = event.Event

// Kind is an alias for event.Kind.
type Kind = event.Kind
