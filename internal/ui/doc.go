// Package ui provides the storefront terminal interface, built on Bubble
// Tea.
//
// # Views
//
//   - Catalog: the filtered product list with a title filter (/), add to
//     cart (a or enter) and catalog reload (r)
//   - Cart: line items with quantity +/-, remove (x) and checkout (C),
//     which clears the cart
//
// # Data Flow
//
// The model never holds state of its own beyond cursor positions and the
// filter text. On every tick it reads a snapshot with Store.GetState, and
// every key that changes data is dispatched to the store, after which the
// snapshot is read again. When the product list in a snapshot differs
// from the previous one, the current title filter is applied again with
// product.FilterByTitle and dispatched as SetFilteredProducts.
//
// # Rehydration Gate
//
// Until the Gate reports that persisted state has been restored, the UI
// shows a loading screen and ignores every key except quit, so a cart
// change can never race the restored cart.
//
// # Preferences
//
// The theme (cycled with T) and the committed filter text are saved to the
// prefs file and restored on the next start.
package ui
