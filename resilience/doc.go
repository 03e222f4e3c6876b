// Package resilience retries stream connections with capped exponential
// backoff.
//
//	err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) error {
//	    resp, err := connect(ctx)
//	    if resp != nil && resp.StatusCode == http.StatusNotFound {
//	        return resilience.Permanent(err)
//	    }
//	    return err
//	})
package resilience
