// Package tgui holds small Telegram UI helpers: HTML-safe text building,
// inline keyboard construction, and callback data packing.
package tgui
