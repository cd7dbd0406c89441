/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"reflect"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"

	"github.com/NVIDIA/cluster-access/pkg/credentials"
)

func seededObjects() []runtime.Object {
	return []runtime.Object{
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "node-1"}},
		&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"}},
		&batchv1.Job{ObjectMeta: metav1.ObjectMeta{Name: "migrate", Namespace: "default"}},
	}
}

func TestProbeAccess_UsesRequestedFamily(t *testing.T) {
	clientset := fake.NewClientset(seededObjects()...)

	tests := []struct {
		name   string
		client *credentials.Client
		want   map[string]int
	}{
		{
			name: "apps",
			client: &credentials.Client{
				Type: credentials.ClientTypeApps,
				Apps: clientset.AppsV1(),
			},
			want: map[string]int{"deployments": 1, "daemonsets": 0},
		},
		{
			name: "batch",
			client: &credentials.Client{
				Type:  credentials.ClientTypeBatch,
				Batch: clientset.BatchV1(),
			},
			want: map[string]int{"jobs": 1, "cronjobs": 0},
		},
		{
			name: "core",
			client: &credentials.Client{
				Type: credentials.ClientTypeCore,
				Core: clientset.CoreV1(),
			},
			want: map[string]int{"namespaces": 1, "nodes": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := probeAccess(context.Background(), tt.client)
			if err != nil {
				t.Fatalf("probeAccess() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("probeAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeAccess_CustomObjects(t *testing.T) {
	dynClient := dynamicfake.NewSimpleDynamicClient(kscheme.Scheme,
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "node-1"}},
	)
	client := &credentials.Client{
		Type:    credentials.ClientTypeCustomObjects,
		Dynamic: dynClient,
	}

	got, err := probeAccess(context.Background(), client)
	if err != nil {
		t.Fatalf("probeAccess() error = %v", err)
	}
	want := map[string]int{"namespaces": 1, "nodes": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("probeAccess() = %v, want %v", got, want)
	}
}

func TestProbeAccess_UnknownType(t *testing.T) {
	_, err := probeAccess(context.Background(), &credentials.Client{Type: credentials.ClientType("pods")})
	if err == nil {
		t.Fatal("expected error for unknown client type")
	}
}
