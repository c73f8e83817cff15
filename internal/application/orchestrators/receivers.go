package orchestrators

import (
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"holidayreminder/internal/adapters/storage/statestore"
)

// ReceiverDeps holds dependencies for managing the recipient list.
type ReceiverDeps struct {
	Store statestore.Store
}

// ExecuteAddReceiver validates the address shape and adds it to the
// recipient list. Matching against existing entries is exact-string.
// POST: Returns whether the list changed plus a human-readable message
func ExecuteAddReceiver(deps ReceiverDeps, address string) (bool, string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return false, "Alamat email tidak boleh kosong", nil
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return false, fmt.Sprintf("Format email tidak valid: %s", address), nil
	}

	added, err := deps.Store.AddReceiver(address)
	if err != nil {
		return false, "", fmt.Errorf("add receiver: %w", err)
	}
	if !added {
		return false, fmt.Sprintf("Email %s sudah terdaftar", address), nil
	}

	slog.Info("receiver_event", "event", "receiver_added", "email", address)
	return true, fmt.Sprintf("Email %s berhasil ditambahkan", address), nil
}

// ExecuteRemoveReceivers removes the given addresses from the recipient
// list. Addresses not on the list are ignored.
// POST: Returns the number of entries removed
func ExecuteRemoveReceivers(deps ReceiverDeps, addresses []string) (int, string, error) {
	trimmed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a = strings.TrimSpace(a); a != "" {
			trimmed = append(trimmed, a)
		}
	}
	if len(trimmed) == 0 {
		return 0, "Tidak ada alamat yang dipilih", nil
	}

	removed, err := deps.Store.RemoveReceivers(trimmed)
	if err != nil {
		return 0, "", fmt.Errorf("remove receivers: %w", err)
	}

	slog.Info("receiver_event", "event", "receivers_removed", "count", removed)
	return removed, fmt.Sprintf("%d email berhasil dihapus", removed), nil
}
