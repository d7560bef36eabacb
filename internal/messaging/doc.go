// Package messaging is the reporting layer between discovery and the
// process that consumes pylocator's standard output.
//
// Every report is wrapped in a JSON-RPC 2.0 notification (an Envelope)
// and written by a Framer as one Content-Length framed message:
//
//	Content-Length: 97\r\n
//	Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n
//	\r\n
//	{"jsonrpc":"2.0","method":"envManager","params":{...}}
//
// A JSONRPCDispatcher decides what is worth sending. It keeps one set of
// identity keys for managers and one for environments and announces
// each identity at most once for the life of the dispatcher. Reporting
// an environment always forwards its manager to ReportManager, so the
// manager set alone decides whether a manager is announced.
//
// The dispatcher is not safe for concurrent use. Locators that run in
// parallel share a SyncDispatcher instead.
//
// LogHandler is a slog.Handler that turns log records into "log"
// envelopes on the same Framer. Installed as the default logger, it
// guarantees the output stream carries nothing but frames.
package messaging
