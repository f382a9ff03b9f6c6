// SPDX-License-Identifier: MPL-2.0

package mle

import "testing"

func TestRequest_Statement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "without version",
			req:  Request{moduleName: "m", content: "export const x = 1;"},
			want: "create or replace mle module m language javascript as\nexport const x = 1;\n",
		},
		{
			name: "with version",
			req:  Request{moduleName: "validator", content: "x", version: "13.7.0", hasVersion: true},
			want: "create or replace mle module validator language javascript version '13.7.0' as\nx\n",
		},
		{
			name: "version quotes are escaped",
			req:  Request{moduleName: "m", content: "x", version: "1'0", hasVersion: true},
			want: "create or replace mle module m language javascript version '1''0' as\nx\n",
		},
		{
			name: "empty version is still emitted",
			req:  Request{moduleName: "m", content: "x", hasVersion: true},
			want: "create or replace mle module m language javascript version '' as\nx\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.req.Statement(); got != tt.want {
				t.Errorf("Statement() = %q, want %q", got, tt.want)
			}
		})
	}
}
