// Package pages contains page objects for the blog UI.
//
// Each page object holds the test's Session and a set of Locator values describing the elements
// of one screen. Locators are plain values and never touch the browser until they are resolved
// by an action or an assertion, so building a page object is free.
package pages
