// Package il2log parses IL-2 Sturmovik dedicated server event logs.
//
// Each line of a server event log (eventlog.lst) describes one occurrence:
// a mission start, a player connecting, an aircraft taking off, a crew
// member bailing out, an object being destroyed. This package turns such
// lines into typed [event.Event] values.
//
// # Parsing lines
//
// To parse a single log line with the built-in rules:
//
//	ev, err := il2log.ParseLine("[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99")
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev != nil {
//	    fmt.Println(ev.Kind, ev.Actor, ev.Pos)
//	}
//
// A nil event with a nil error means no rule matched the line.
//
// To stream a whole file:
//
//	for ev, err := range il2log.ParseFile(ctx, "eventlog.lst") {
//	    if err != nil {
//	        log.Printf("skip: %v", err)
//	        continue
//	    }
//	    fmt.Println(ev.Kind)
//	}
//
// # Registries
//
// A [Registry] is an ordered rule set; the first rule whose pattern
// matches the whole line wins. [NewDefaultRegistry] returns a registry
// holding the built-in rules sorted by [Score], so that rules naming
// human pilots are tried before the AI rules that would also match them.
// Rules can be removed, added, or given a [Callback] that post-processes
// the events they produce:
//
//	reg := il2log.NewDefaultRegistry()
//	rule, _ := reg.Lookup(event.HumanHasConnected)
//	_ = reg.Unregister(rule)
//	_ = reg.Register(rule, func(captures map[string]string, ev *event.Event) *event.Event {
//	    ev.Callsign = strings.ToLower(ev.Callsign)
//	    return ev
//	})
//
// New rules are built with the [grammar] package.
//
// # Watching a live log
//
//	events, errs, err := il2log.Watch(ctx,
//	    il2log.WithLogFile("/srv/il2/eventlog.lst"),
//	    il2log.WithIncludeKinds(event.HumanHasConnected, event.HumanHasDisconnected),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    select {
//	    case ev, ok := <-events:
//	        if !ok {
//	            return
//	        }
//	        fmt.Println(ev.Kind, ev.Callsign)
//	    case err, ok := <-errs:
//	        if !ok {
//	            return
//	        }
//	        log.Printf("error: %v", err)
//	    }
//	}
//
// # Sessions
//
// The [session] subpackage folds a stream of events into missions and
// per-player event lists.
package il2log
