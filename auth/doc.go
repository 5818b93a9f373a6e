// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth holds the small authentication surface of ballot-box.

There are no sessions and no passwords: the voter's code or phone
number is the credential, checked against the registry by the store,
and the admin surface is gated by a single configured key compared in
constant time. Ballot receipt ids are random UUIDs.
*/
package auth
