// Package state provides a lightweight per-user session store for Telegram bots.
// It is intentionally domain-agnostic so it can be reused across bots; the
// actual step dispatch belongs to the dialogue engine built on top of it.
package state
