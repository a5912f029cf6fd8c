// Package douglas is a declarative runner for small app definitions
// called Galaxies. A Galaxy is a YAML document declaring a shell
// action, an LLM-backed prompt pipeline, or both, optionally paired
// with a per-Galaxy persisted data model backed by SQLite.
//
// The facade Engine loads definitions, resolves the execution mode,
// substitutes {{user_input}} placeholders, dispatches to the right
// backend and persists the normalized result:
//
//	engine, err := douglas.New("apps",
//		douglas.WithCompleter(openai.NewClient(key)),
//	)
//	out, err := engine.Run(ctx, "food-logger", "two slices of toast")
//	fmt.Println(out.Text)
package douglas
