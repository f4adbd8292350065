// Package plugin attaches Lua scripts to documents as listeners.
//
// A script is a single file, name.lua, or a directory holding init.lua.
// Each document gets its own sandboxed Lua state running the script; the
// state is closed when the document is. Scripts take part in the edit
// protocol by defining any of these globals:
//
//	before_modify(start, end, text)  -- verify phase
//	after_modify()                   -- notify phase
//	after_newline(line)              -- a delimiter was inserted
//	cursor_moved(offset)             -- the cursor moved
//	before_save()                    -- the document is about to be saved
//
// A hook fails by raising an error or by returning false and a message.
// Failures of the first four are isolated by the document; a failing
// before_save vetoes the save.
//
// Scripts reach the document through require("quill") and string helpers
// through require("quill.text"):
//
//	local q = require("quill")
//	local text = require("quill.text")
//
//	function before_save()
//	    for line = 0, q.line_count() - 1 do
//	        local s = q.line(line)
//	        local trimmed = text.trim_right(s)
//	        if trimmed ~= s then
//	            q.replace_line(line, trimmed)
//	        end
//	    end
//	end
//
// Discover finds scripts in a list of directories and Register adds one
// catalog provider per script:
//
//	sources, err := plugin.Discover(cfg.Plugins.Dirs...)
//	plugin.Register(catalog, sources, plugin.WithTimeout(cfg.PluginTimeout()))
package plugin
