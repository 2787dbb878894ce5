package il2log

import "github.com/il2log/il2log-go/pkg/il2log/event"

// compiledFilter is an include/exclude set of event kinds.
// Exclude takes precedence over include; an empty include set allows all.
type compiledFilter struct {
	include map[event.Kind]struct{}
	exclude map[event.Kind]struct{}
}

func newCompiledFilter(include, exclude []event.Kind) *compiledFilter {
	f := &compiledFilter{}
	f.setInclude(include)
	f.setExclude(exclude)
	return f
}

func kindSet(kinds []event.Kind) map[event.Kind]struct{} {
	if len(kinds) == 0 {
		return nil
	}
	m := make(map[event.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		m[k] = struct{}{}
	}
	return m
}

func (f *compiledFilter) setInclude(kinds []event.Kind) { f.include = kindSet(kinds) }
func (f *compiledFilter) setExclude(kinds []event.Kind) { f.exclude = kindSet(kinds) }

// Allows reports whether events of kind k pass the filter.
func (f *compiledFilter) Allows(k event.Kind) bool {
	if f == nil {
		return true
	}
	if _, ok := f.exclude[k]; ok {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	_, ok := f.include[k]
	return ok
}
