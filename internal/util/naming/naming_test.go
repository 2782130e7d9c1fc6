package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	cluster := "h2o-test"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "StatefulSet",
			got:      StatefulSet(cluster),
			expected: "h2o-test-stateful-set",
		},
		{
			name:     "Service",
			got:      Service(cluster),
			expected: "h2o-test-service",
		},
		{
			name:     "Ingress",
			got:      Ingress(cluster),
			expected: "h2o-test-ingress",
		},
		{
			name:     "ServiceDNS",
			got:      ServiceDNS(cluster, "team-a"),
			expected: "h2o-test-service.team-a.svc.cluster.local",
		},
		{
			name:     "IngressPath",
			got:      IngressPath(cluster),
			expected: "/h2o-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}
