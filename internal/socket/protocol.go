package socket

// Message is a command sent to a running panel. Items are addressed by
// their registry refs.
type Message struct {
	Command string   `json:"command"`
	IDs     []uint64 `json:"ids,omitempty"`
	Names   []string `json:"names,omitempty"`
	Color   string   `json:"color,omitempty"`

	reply chan Response
}

// Reply answers a message received from Server.Messages. Only the first
// reply is delivered.
func (m Message) Reply(resp Response) {
	if m.reply == nil {
		return
	}
	select {
	case m.reply <- resp:
	default:
	}
}

// ItemInfo describes one displayed item
type ItemInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Response is the answer of the server
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	IDs     []uint64   `json:"ids,omitempty"`
	Items   []ItemInfo `json:"items,omitempty"`
}

// Command types
const (
	CommandGetItemList  = "get_item_list"
	CommandGetItemInfo  = "get_item_info"
	CommandAddVariables = "add_variables"
	CommandAddItems     = "add_items"
	CommandSetItemColor = "set_item_color"
	CommandRemoveItems  = "remove_items"
	CommandFocusItem    = "focus_item"
	CommandClear        = "clear"
	CommandShutdown     = "shutdown"
)

// Commands lists every command the server accepts
var Commands = []string{
	CommandGetItemList,
	CommandGetItemInfo,
	CommandAddVariables,
	CommandAddItems,
	CommandSetItemColor,
	CommandRemoveItems,
	CommandFocusItem,
	CommandClear,
	CommandShutdown,
}
