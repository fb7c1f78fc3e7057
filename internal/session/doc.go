// Package session holds the client-side state of the chat view.
//
// # Overview
//
// A Manager owns the list of chats, the current chat and its messages, and
// two busy flags (loading and sending). All mutations go through the
// Manager so the UI only ever renders a consistent Snapshot.
//
// # Sending
//
// Sending is split in two so the optimistic half can run inside the Bubble
// Tea Update loop:
//
//  1. BeginSend appends a user message with a temp- id and raises the
//     sending flag. It returns nil when no chat is selected.
//  2. Deliver calls the backend from a tea.Cmd. On success the assistant
//     reply is appended; on failure exactly the optimistic message is
//     removed. The sending flag is always lowered.
//
// A reply that arrives after the user switched chats is not appended to the
// new chat.
//
// # Selection
//
// Every selection and clear is numbered, and a SelectChat response is
// dropped unless it belongs to the latest one. Separately, an epoch changes
// whenever a different chat's messages replace the current set, or the set
// is cleared. A reply is appended only if the epoch it was sent under still
// holds. A failed selection or a reload of the same chat leaves the epoch
// alone, so the reply still lands.
package session
