// Package collection provides an HTTP client for a remote REST collection of todo records.
//
// A collection is a single JSON resource holding records of the form
// {"id": "...", "title": "..."}. The endpoint assigns ids; the client never
// generates or validates them.
//
// # HTTP Contract
//
//	GET    {base}        list records, in server order
//	POST   {base}        {"title": ...} creates a record
//	PUT    {base}/{id}   {"title": ...} replaces a record's title
//	DELETE {base}/{id}   removes a record (response body unused)
//
// # Usage Example
//
//	client := collection.NewClient(urls.DefaultEndpoint)
//	client.SetTimeout(5 * time.Second)
//
//	records, err := client.List(ctx)
//	if err != nil {
//	    fmt.Println(collection.GetShortErrorMessage(err))
//	    fmt.Println(collection.GetTroubleshootingHint(err))
//	    return err
//	}
//
// # Errors
//
// Every failure is a *Error. Message carries the text shown to users, for
// example "Request failed with status code 404". Use the Is* helpers to
// branch on the error category.
package collection
