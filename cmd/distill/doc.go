// Package main hosts the Distill CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into the full
// pipeline: fetch a transcript from YouTube captions or whisper, generate an
// article through Claude, render it to disk, and optionally deliver it by
// email. It centralizes configuration resolution, the processing lock, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
