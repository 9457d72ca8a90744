package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	import_parser "github.com/ripopov/surfer-sub000/internal/import"
	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/socket"
	"github.com/ripopov/surfer-sub000/internal/theme"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

func failure(format string, args ...any) socket.Response {
	return socket.Response{Message: fmt.Sprintf(format, args...)}
}

func refsOf(ids []uint64) []model.ItemRef {
	refs := make([]model.ItemRef, len(ids))
	for i, id := range ids {
		refs[i] = model.ItemRef(id)
	}
	return refs
}

// handleControl runs a command received on the control socket
func (a *App) handleControl(msg socket.Message) socket.Response {
	p := a.panel
	switch msg.Command {
	case socket.CommandGetItemList:
		ids := make([]uint64, 0, p.Tree.Len())
		for _, n := range p.Tree.All() {
			ids = append(ids, uint64(n.Item))
		}
		return socket.Response{Success: true, IDs: ids}

	case socket.CommandGetItemInfo:
		infos := make([]socket.ItemInfo, 0, len(msg.IDs))
		for _, id := range msg.IDs {
			item := p.Items.Get(model.ItemRef(id))
			if item == nil {
				return failure("No item with id %d", id)
			}
			infos = append(infos, socket.ItemInfo{ID: id, Name: item.Name, Type: item.Kind.String()})
		}
		return socket.Response{Success: true, Items: infos}

	case socket.CommandAddVariables, socket.CommandAddItems:
		ids := make([]uint64, 0, len(msg.Names))
		for _, text := range msg.Names {
			kind, name := model.KindVariable, text
			if msg.Command == socket.CommandAddItems {
				kind, name = import_parser.ParseItemText(text)
			}
			ids = append(ids, uint64(p.AddItem(kind, name)))
		}
		a.SetStatus(fmt.Sprintf("Added %d items", len(ids)))
		return socket.Response{Success: true, IDs: ids}

	case socket.CommandSetItemColor:
		if len(msg.IDs) != 1 {
			return failure("set_item_color takes one id")
		}
		ref := model.ItemRef(msg.IDs[0])
		if p.Items.Get(ref) == nil {
			return failure("No item with id %d", ref)
		}
		if msg.Color != "" && theme.ParseColorString(msg.Color) == tcell.ColorDefault {
			return failure("Unknown color: %s", msg.Color)
		}
		p.Edit("color", func(_ *tree.Tree, reg *model.Registry) {
			reg.Get(ref).Color = msg.Color
		})
		return socket.Response{Success: true}

	case socket.CommandRemoveItems:
		n := p.RemoveItems(refsOf(msg.IDs))
		return socket.Response{Success: true, Message: fmt.Sprintf("Removed %d items", n)}

	case socket.CommandFocusItem:
		if len(msg.IDs) != 1 || !p.FocusItem(model.ItemRef(msg.IDs[0])) {
			return failure("No item with id %v", msg.IDs)
		}
		return socket.Response{Success: true}

	case socket.CommandClear:
		p.Replace("clear", tree.New(), model.NewRegistry())
		return socket.Response{Success: true}

	case socket.CommandShutdown:
		a.quit = true
		return socket.Response{Success: true}
	}
	return failure("Unknown command: %s", msg.Command)
}
