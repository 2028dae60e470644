// Package api exposes the executor's HTTP surface: the send trigger, the
// unsubscribe landing page, the delivery-feedback webhook, and the health
// probe. Handlers translate transport concerns (auth, signatures, payload
// shapes) into calls on the injected collaborators and map their sentinel
// errors onto status codes.
package api
