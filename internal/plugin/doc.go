// Package plugin hosts Lua plugins that react to application actions.
//
// Each plugin is a single .lua file. At load time the file runs once with a
// global `lychee` table in scope:
//
//	lychee.on(action, fn)  -- run fn(note) when the action fires
//	lychee.bindings()      -- current action -> combo label table
//	lychee.log(msg)        -- write to the application log
//
// Listeners registered through lychee.on go through the action bus like any
// other subscriber; a failing plugin never blocks the action itself.
package plugin
