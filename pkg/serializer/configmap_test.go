package serializer

import (
	"context"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI_Valid(t *testing.T) {
	namespace, name, err := parseConfigMapURI("cm://gpu-operator/resolution-report")
	if err != nil {
		t.Fatalf("parseConfigMapURI failed: %v", err)
	}
	if namespace != "gpu-operator" || name != "resolution-report" {
		t.Errorf("unexpected parse result: %s/%s", namespace, name)
	}
}

func TestConfigMapWriter_CreatesConfigMap(t *testing.T) {
	fakeClient := fake.NewClientset()
	writer := NewConfigMapWriter(FormatYAML, "ns", "report")
	writer.client = fakeClient.CoreV1()

	err := writer.Serialize(context.Background(), contextRow{Name: "ctx", Active: true})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	cm, err := fakeClient.CoreV1().ConfigMaps("ns").Get(context.Background(), "report", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("ConfigMap not created: %v", err)
	}
	if !strings.Contains(cm.Data[ConfigMapDataKey], "name: ctx") {
		t.Errorf("unexpected ConfigMap payload: %q", cm.Data[ConfigMapDataKey])
	}
}

func TestConfigMapWriter_UpdatesExistingConfigMap(t *testing.T) {
	fakeClient := fake.NewClientset()
	writer := NewConfigMapWriter(FormatJSON, "ns", "report")
	writer.client = fakeClient.CoreV1()

	if err := writer.Serialize(context.Background(), contextRow{Name: "first"}); err != nil {
		t.Fatalf("first Serialize failed: %v", err)
	}
	if err := writer.Serialize(context.Background(), contextRow{Name: "second"}); err != nil {
		t.Fatalf("second Serialize failed: %v", err)
	}

	cm, err := fakeClient.CoreV1().ConfigMaps("ns").Get(context.Background(), "report", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("ConfigMap missing: %v", err)
	}
	if !strings.Contains(cm.Data[ConfigMapDataKey], "second") {
		t.Errorf("expected updated payload, got %q", cm.Data[ConfigMapDataKey])
	}
}
